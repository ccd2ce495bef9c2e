package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/scaninstead/api/internal/auth"
	"github.com/scaninstead/api/internal/dto"
	"github.com/scaninstead/api/internal/entity"
	"github.com/scaninstead/api/internal/qr"
	"github.com/scaninstead/api/internal/repository"
)

// ErrInvalidCredentials is returned for any failed signin, without revealing
// whether the account exists.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("email already registered")
)

// AuthService coordinates homeowner account registration and token issuance.
type AuthService struct {
	homeowners repository.HomeownersRepository
	jwt        *auth.JWTManager
	baseURL    string
	region     string
}

// NewAuthService constructs a new AuthService. region is the default country
// for phone number parsing.
func NewAuthService(homeowners repository.HomeownersRepository, jwtManager *auth.JWTManager, baseURL, region string) *AuthService {
	return &AuthService{
		homeowners: homeowners,
		jwt:        jwtManager,
		baseURL:    strings.TrimRight(baseURL, "/"),
		region:     region,
	}
}

// Signup registers a homeowner account. An anonymous homeowner created
// through a pitch page keeps their ID and history; a brand new email gets a
// fresh pitch page as well.
func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (*entity.Homeowner, string, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" || req.Password == "" {
		return nil, "", errors.New("full name, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	pref := req.NotificationPreference
	switch pref {
	case entity.NotifyEmail, entity.NotifyPhone, entity.NotifyBoth:
	default:
		pref = entity.NotifyEmail
	}

	var phone *string
	if p := strings.TrimSpace(req.Phone); p != "" {
		e164 := normalizePhone(p, s.region)
		if e164 == "" {
			return nil, "", ErrInvalidPhone
		}
		phone = &e164
	}

	owner, err := s.homeowners.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if owner.IsRegistered {
			return nil, "", ErrAlreadyRegistered
		}
		owner, err = s.homeowners.CompleteRegistration(ctx, owner.ID, fullName, string(hash), phone, pref)
		if err != nil {
			return nil, "", err
		}
	case errors.Is(err, repository.ErrHomeownerNotFound):
		owner, err = s.createRegistered(ctx, fullName, email, string(hash), phone, pref)
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(owner.ID.String(), owner.Email, owner.FullName, auth.RoleHomeowner)
	if err != nil {
		return nil, "", err
	}
	return owner, token, nil
}

// Signin validates credentials and returns a JWT.
func (s *AuthService) Signin(ctx context.Context, req dto.SigninRequest) (*entity.Homeowner, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	owner, err := s.homeowners.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrHomeownerNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !owner.IsRegistered || owner.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(owner.ID.String(), owner.Email, owner.FullName, auth.RoleHomeowner)
	if err != nil {
		return nil, "", err
	}
	return owner, token, nil
}

func (s *AuthService) createRegistered(ctx context.Context, fullName, email, hash string, phone *string, pref string) (*entity.Homeowner, error) {
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
		Phone:                  phone,
		PasswordHash:           hash,
		IsRegistered:           true,
		NotificationPreference: pref,
		QRUrl:                  qrURL,
		PitchURL:               pitchURL,
		CreatedAt:              time.Now().UTC(),
	}
	if err := s.homeowners.Create(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}
