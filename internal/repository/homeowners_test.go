package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/scaninstead/api/internal/entity"
)

func scanHomeownerRow(id uuid.UUID, email string, registered bool) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*uuid.UUID) = id
		*dest[1].(*string) = "Jane Smith"
		*dest[2].(*string) = email
		*dest[3].(**string) = nil
		*dest[4].(*string) = ""
		*dest[5].(*bool) = registered
		*dest[6].(*string) = entity.NotifyEmail
		*dest[7].(*string) = "data:image/png;base64,QR"
		*dest[8].(*string) = "https://scaninstead.test/v/" + id.String()
		*dest[9].(*time.Time) = time.Now()
		return nil
	}
}

func TestPGXHomeownersRepository_Create(t *testing.T) {
	var gotQuery string
	repo := &PGXHomeownersRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			gotQuery = query
			return pgconn.CommandTag{}, nil
		},
	}}

	owner := &entity.Homeowner{
		ID:                     uuid.New(),
		FullName:               "Jane Smith",
		Email:                  "jane@example.com",
		NotificationPreference: entity.NotifyEmail,
		CreatedAt:              time.Now(),
	}
	if err := repo.Create(context.Background(), owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery == "" {
		t.Fatal("expected insert to be executed")
	}
}

func TestPGXHomeownersRepository_CreateDuplicateEmail(t *testing.T) {
	repo := &PGXHomeownersRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505", ConstraintName: "homeowners_email_key"}
		},
	}}

	err := repo.Create(context.Background(), &entity.Homeowner{ID: uuid.New(), Email: "jane@example.com"})
	if !errors.Is(err, ErrEmailDuplicate) {
		t.Fatalf("expected ErrEmailDuplicate, got %v", err)
	}
}

func TestPGXHomeownersRepository_FindByID(t *testing.T) {
	id := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	repo := &PGXHomeownersRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: scanHomeownerRow(id, "jane@example.com", false)}
		},
	}}

	owner, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owner.ID != id || owner.Email != "jane@example.com" || owner.IsRegistered {
		t.Fatalf("unexpected homeowner: %+v", owner)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	if _, err := repo.FindByID(context.Background(), uuid.New()); !errors.Is(err, ErrHomeownerNotFound) {
		t.Fatalf("expected ErrHomeownerNotFound, got %v", err)
	}
}

func TestPGXHomeownersRepository_CompleteRegistration(t *testing.T) {
	id := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	repo := &PGXHomeownersRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: scanHomeownerRow(id, "jane@example.com", true)}
		},
	}}

	owner, err := repo.CompleteRegistration(context.Background(), id, "Jane Smith", "hash", nil, entity.NotifyEmail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !owner.IsRegistered {
		t.Fatalf("expected registered homeowner, got %+v", owner)
	}
}

func TestPGXHomeownersRepository_List(t *testing.T) {
	repo := &PGXHomeownersRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{
				scans: []func(dest ...any) error{
					scanHomeownerRow(uuid.New(), "first@example.com", true),
					scanHomeownerRow(uuid.New(), "second@example.com", false),
				},
			}, nil
		},
	}}

	owners, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(owners) != 2 || owners[0].Email != "first@example.com" {
		t.Fatalf("unexpected rows: %+v", owners)
	}
}
