package handler

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/scaninstead/api/internal/entity"
	"github.com/scaninstead/api/internal/repository"
)

type stubHomeowners struct {
	owners map[uuid.UUID]*entity.Homeowner
	byMail map[string]*entity.Homeowner
}

func newStubHomeowners(owners ...*entity.Homeowner) *stubHomeowners {
	s := &stubHomeowners{owners: map[uuid.UUID]*entity.Homeowner{}, byMail: map[string]*entity.Homeowner{}}
	for _, o := range owners {
		s.owners[o.ID] = o
		s.byMail[o.Email] = o
	}
	return s
}

func (s *stubHomeowners) Create(ctx context.Context, owner *entity.Homeowner) error {
	if _, ok := s.byMail[owner.Email]; ok {
		return repository.ErrEmailDuplicate
	}
	s.owners[owner.ID] = owner
	s.byMail[owner.Email] = owner
	return nil
}

func (s *stubHomeowners) FindByID(ctx context.Context, id uuid.UUID) (*entity.Homeowner, error) {
	owner, ok := s.owners[id]
	if !ok {
		return nil, repository.ErrHomeownerNotFound
	}
	return owner, nil
}

func (s *stubHomeowners) FindByEmail(ctx context.Context, email string) (*entity.Homeowner, error) {
	owner, ok := s.byMail[email]
	if !ok {
		return nil, repository.ErrHomeownerNotFound
	}
	return owner, nil
}

func (s *stubHomeowners) CompleteRegistration(ctx context.Context, id uuid.UUID, fullName, passwordHash string, phone *string, pref string) (*entity.Homeowner, error) {
	owner, ok := s.owners[id]
	if !ok {
		return nil, repository.ErrHomeownerNotFound
	}
	owner.FullName = fullName
	owner.PasswordHash = passwordHash
	owner.Phone = phone
	owner.NotificationPreference = pref
	owner.IsRegistered = true
	return owner, nil
}

func (s *stubHomeowners) List(ctx context.Context) ([]entity.Homeowner, error) {
	var owners []entity.Homeowner
	for _, o := range s.owners {
		owners = append(owners, *o)
	}
	return owners, nil
}

type stubPitchRepo struct {
	created []*entity.Pitch
	saveErr error
}

func (s *stubPitchRepo) Create(ctx context.Context, pitch *entity.Pitch) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.created = append(s.created, pitch)
	return nil
}

func (s *stubPitchRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Pitch, error) {
	for _, p := range s.created {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrPitchNotFound
}

func (s *stubPitchRepo) ListByHomeowner(ctx context.Context, homeownerID uuid.UUID) ([]entity.Pitch, error) {
	var pitches []entity.Pitch
	for i := len(s.created) - 1; i >= 0; i-- {
		if s.created[i].HomeownerID == homeownerID {
			pitches = append(pitches, *s.created[i])
		}
	}
	return pitches, nil
}

func (s *stubPitchRepo) CountByHomeowner(ctx context.Context, homeownerID uuid.UUID) (int, error) {
	count := 0
	for _, p := range s.created {
		if p.HomeownerID == homeownerID {
			count++
		}
	}
	return count, nil
}

func (s *stubPitchRepo) ListRecent(ctx context.Context, since time.Time) ([]entity.Pitch, error) {
	var pitches []entity.Pitch
	for _, p := range s.created {
		if !p.CreatedAt.Before(since) {
			pitches = append(pitches, *p)
		}
	}
	return pitches, nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, offer, reason string) *entity.PitchAnalysis {
	return &entity.PitchAnalysis{
		Sentiment:           entity.SentimentNeutral,
		SentimentConfidence: 0.65,
		Summary:             offer,
		BusinessType:        "Roofing",
		Urgency:             entity.UrgencyLow,
		Categories:          []string{"repair"},
	}
}

var errStorage = errors.New("bucket unavailable")

type stubUploader struct {
	url string
	err error
}

func (s *stubUploader) Upload(ctx context.Context, fileName, contentType string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

type stubNotifier struct {
	enqueued int
}

func (s *stubNotifier) Enqueue(owner *entity.Homeowner, pitch *entity.Pitch) {
	s.enqueued++
}
