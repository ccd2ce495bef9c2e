package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scaninstead/api/internal/entity"
)

// ErrHomeownerNotFound is returned when no homeowner matches the lookup.
var (
	ErrHomeownerNotFound = errors.New("homeowner not found")
	ErrEmailDuplicate    = errors.New("email already exists")
)

// HomeownersRepository declares persistence operations for homeowners.
type HomeownersRepository interface {
	Create(ctx context.Context, owner *entity.Homeowner) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Homeowner, error)
	FindByEmail(ctx context.Context, email string) (*entity.Homeowner, error)
	CompleteRegistration(ctx context.Context, id uuid.UUID, fullName, passwordHash string, phone *string, notificationPreference string) (*entity.Homeowner, error)
	List(ctx context.Context) ([]entity.Homeowner, error)
}

// PGXHomeownersRepository implements HomeownersRepository with pgx.
type PGXHomeownersRepository struct {
	pool pgxPool
}

// NewPGXHomeownersRepository instantiates a homeowners repository.
func NewPGXHomeownersRepository(pool *pgxpool.Pool) *PGXHomeownersRepository {
	return &PGXHomeownersRepository{pool: pool}
}

const homeownerColumns = `id, full_name, email, phone, password_hash, is_registered, notification_preference, qr_url, pitch_url, created_at`

// Create inserts a new homeowner row.
func (r *PGXHomeownersRepository) Create(ctx context.Context, owner *entity.Homeowner) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO homeowners (id, full_name, email, phone, password_hash, is_registered, notification_preference, qr_url, pitch_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, owner.ID, owner.FullName, owner.Email, owner.Phone, owner.PasswordHash, owner.IsRegistered, owner.NotificationPreference, owner.QRUrl, owner.PitchURL, owner.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "email") {
			return fmt.Errorf("%w: %v", ErrEmailDuplicate, pgErr)
		}
		return fmt.Errorf("insert homeowner: %w", err)
	}
	return nil
}

// FindByID retrieves a homeowner by identifier.
func (r *PGXHomeownersRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Homeowner, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+homeownerColumns+` FROM homeowners WHERE id = $1`, id)
	owner, err := scanHomeowner(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHomeownerNotFound
		}
		return nil, fmt.Errorf("query homeowner by id: %w", err)
	}
	return owner, nil
}

// FindByEmail fetches a homeowner by email if present.
func (r *PGXHomeownersRepository) FindByEmail(ctx context.Context, email string) (*entity.Homeowner, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+homeownerColumns+` FROM homeowners WHERE email = $1`, email)
	owner, err := scanHomeowner(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHomeownerNotFound
		}
		return nil, fmt.Errorf("query homeowner by email: %w", err)
	}
	return owner, nil
}

// CompleteRegistration flips an anonymous homeowner to a registered account.
func (r *PGXHomeownersRepository) CompleteRegistration(ctx context.Context, id uuid.UUID, fullName, passwordHash string, phone *string, notificationPreference string) (*entity.Homeowner, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE homeowners
        SET full_name = $2, password_hash = $3, phone = $4, notification_preference = $5, is_registered = TRUE
        WHERE id = $1
        RETURNING `+homeownerColumns+`
    `, id, fullName, passwordHash, phone, notificationPreference)

	owner, err := scanHomeowner(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHomeownerNotFound
		}
		return nil, fmt.Errorf("complete homeowner registration: %w", err)
	}
	return owner, nil
}

// List returns all homeowners ordered by creation date (desc).
func (r *PGXHomeownersRepository) List(ctx context.Context) ([]entity.Homeowner, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+homeownerColumns+` FROM homeowners ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list homeowners: %w", err)
	}
	defer rows.Close()

	var owners []entity.Homeowner
	for rows.Next() {
		owner, err := scanHomeowner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan homeowner row: %w", err)
		}
		owners = append(owners, *owner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate homeowners: %w", err)
	}
	return owners, nil
}

func scanHomeowner(row pgx.Row) (*entity.Homeowner, error) {
	var owner entity.Homeowner
	if err := row.Scan(
		&owner.ID, &owner.FullName, &owner.Email, &owner.Phone, &owner.PasswordHash,
		&owner.IsRegistered, &owner.NotificationPreference, &owner.QRUrl, &owner.PitchURL, &owner.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &owner, nil
}
