package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scaninstead/api/internal/dto"
	"github.com/scaninstead/api/internal/entity"
	"github.com/scaninstead/api/internal/qr"
	"github.com/scaninstead/api/internal/repository"
)

// Errors surfaced to handlers for homeowner requests.
var (
	ErrMissingFields = errors.New("full name and email are required")
	ErrInvalidPhone  = errors.New("invalid phone number")
)

// WelcomeSender delivers the onboarding email with the pitch page link.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, owner *entity.Homeowner) error
}

// HomeownerService manages homeowner profiles and their pitch pages.
type HomeownerService struct {
	repo    repository.HomeownersRepository
	welcome WelcomeSender
	baseURL string
	region  string
	log     zerolog.Logger
}

// NewHomeownerService constructs a new HomeownerService. region is the
// default country for phone number parsing.
func NewHomeownerService(repo repository.HomeownersRepository, welcome WelcomeSender, baseURL, region string, log zerolog.Logger) *HomeownerService {
	return &HomeownerService{
		repo:    repo,
		welcome: welcome,
		baseURL: strings.TrimRight(baseURL, "/"),
		region:  region,
		log:     log,
	}
}

// Create provisions a pitch page for a homeowner: a stable ID, the public
// pitch URL, and a QR code pointing at it. The welcome email is best effort.
func (s *HomeownerService) Create(ctx context.Context, req dto.CreateHomeownerRequest) (*entity.Homeowner, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		return nil, ErrMissingFields
	}

	id := uuid.New()
	pitchURL := fmt.Sprintf("%s/v/%s", s.baseURL, id)

	qrURL, err := qr.DataURL(pitchURL)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}

	owner := &entity.Homeowner{
		ID:                     id,
		FullName:               fullName,
		Email:                  email,
		NotificationPreference: entity.NotifyEmail,
		QRUrl:                  qrURL,
		PitchURL:               pitchURL,
		CreatedAt:              time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, owner); err != nil {
		return nil, err
	}

	if s.welcome != nil {
		if err := s.welcome.SendWelcome(ctx, owner); err != nil {
			s.log.Error().Err(err).Str("homeowner_id", id.String()).Msg("welcome email failed")
		}
	}
	return owner, nil
}

// Register completes a homeowner profile in place so the printed QR code
// keeps resolving to the same pitch page. The email on record stays as is
// since it anchors sign-in identity.
func (s *HomeownerService) Register(ctx context.Context, id uuid.UUID, req dto.RegisterHomeownerRequest) (*entity.Homeowner, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, ErrMissingFields
	}

	owner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var phone *string
	if p := strings.TrimSpace(req.Phone); p != "" {
		e164 := normalizePhone(p, s.region)
		if e164 == "" {
			return nil, ErrInvalidPhone
		}
		phone = &e164
	}

	pref := req.NotificationPreference
	switch pref {
	case entity.NotifyEmail, entity.NotifyPhone, entity.NotifyBoth:
	case "":
		pref = owner.NotificationPreference
	default:
		pref = entity.NotifyEmail
	}

	return s.repo.CompleteRegistration(ctx, id, fullName, owner.PasswordHash, phone, pref)
}

// Get returns a homeowner by ID.
func (s *HomeownerService) Get(ctx context.Context, id uuid.UUID) (*entity.Homeowner, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all homeowners, newest first.
func (s *HomeownerService) List(ctx context.Context) ([]entity.Homeowner, error) {
	return s.repo.List(ctx)
}
