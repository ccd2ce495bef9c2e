package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scaninstead/api/internal/dto"
	"github.com/scaninstead/api/internal/entity"
	"github.com/scaninstead/api/internal/repository"
	"github.com/scaninstead/api/internal/service/analysis"
	"github.com/scaninstead/api/internal/storage"
)

// Analyzer produces the content analysis for a submission. Implementations
// never fail; degraded results carry heuristic values.
type Analyzer interface {
	Analyze(ctx context.Context, offer, reason string) *entity.PitchAnalysis
}

// PitchNotifier schedules a homeowner alert without blocking.
type PitchNotifier interface {
	Enqueue(owner *entity.Homeowner, pitch *entity.Pitch)
}

// ValidationFailedError carries every field violation from a rejected
// submission.
type ValidationFailedError struct {
	Violations []FieldViolation
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("pitch validation failed with %d violations", len(e.Violations))
}

// PitchUpload is an attachment accepted alongside the pitch form.
type PitchUpload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// PitchService orchestrates the intake flow: homeowner lookup, validation,
// attachment upload, content analysis, persistence, and notification.
type PitchService struct {
	homeowners repository.HomeownersRepository
	pitches    repository.PitchesRepository
	validator  *PitchValidator
	analyzer   Analyzer
	uploader   storage.Uploader
	notifier   PitchNotifier
	log        zerolog.Logger
}

// NewPitchService constructs a new PitchService. uploader and notifier may
// be nil; uploads are then rejected and alerts skipped.
func NewPitchService(
	homeowners repository.HomeownersRepository,
	pitches repository.PitchesRepository,
	validator *PitchValidator,
	analyzer Analyzer,
	uploader storage.Uploader,
	notifier PitchNotifier,
	log zerolog.Logger,
) *PitchService {
	return &PitchService{
		homeowners: homeowners,
		pitches:    pitches,
		validator:  validator,
		analyzer:   analyzer,
		uploader:   uploader,
		notifier:   notifier,
		log:        log,
	}
}

// Submit runs the full intake flow for one pitch. The homeowner lookup runs
// before validation so a dead QR code reports not-found rather than a form
// error. Upload and persistence failures reject the submission with nothing
// stored; analysis never does.
func (s *PitchService) Submit(ctx context.Context, homeownerID uuid.UUID, form dto.PitchForm, upload *PitchUpload) (*entity.Pitch, error) {
	owner, err := s.homeowners.FindByID(ctx, homeownerID)
	if err != nil {
		return nil, err
	}

	validated, violations := s.validator.Validate(form)
	if violations != nil {
		return nil, &ValidationFailedError{Violations: violations}
	}

	var fileURL, fileName *string
	if upload != nil {
		if s.uploader == nil {
			return nil, fmt.Errorf("upload attachment: storage not configured")
		}
		url, err := s.uploader.Upload(ctx, upload.FileName, upload.ContentType, upload.Body)
		if err != nil {
			return nil, fmt.Errorf("upload attachment: %w", err)
		}
		fileURL = &url
		name := upload.FileName
		fileName = &name
	}

	priors, err := s.pitches.ListByHomeowner(ctx, homeownerID)
	if err != nil {
		s.log.Warn().Err(err).
			Str("homeowner_id", homeownerID.String()).
			Msg("prior pitch lookup failed, scoring without history")
		priors = nil
	}

	now := time.Now().UTC()
	result := s.analyzer.Analyze(ctx, validated.Offer, validated.Reason)
	if result == nil {
		result = analysis.SafeDefault(validated.Offer)
	}

	hidden := analysis.DeriveHidden(analysis.HiddenInput{
		Offer:       validated.Offer,
		Reason:      validated.Reason,
		PriorTexts:  priorTexts(priors),
		PriorTimes:  priorTimes(priors),
		FillSeconds: parseFillSeconds(form.FillSeconds),
		SubmittedAt: now,
	}, result)

	pitch := &entity.Pitch{
		ID:           uuid.New(),
		HomeownerID:  homeownerID,
		VisitorName:  validated.VisitorName,
		Company:      validated.Company,
		Offer:        validated.Offer,
		Reason:       validated.Reason,
		VisitorEmail: validated.VisitorEmail,
		VisitorPhone: validated.VisitorPhone,
		FileURL:      fileURL,
		FileName:     fileName,
		UserType:     validated.UserType,
		CreatedAt:    now,
		AIProcessed:  true,
		Analysis:     result,
		Hidden:       hidden,
	}

	if err := s.pitches.Create(ctx, pitch); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Enqueue(owner, pitch)
	}
	return pitch, nil
}

// List returns a homeowner's pitches, newest first, plus the total count on
// record. The homeowner must exist.
func (s *PitchService) List(ctx context.Context, homeownerID uuid.UUID) ([]entity.Pitch, int, error) {
	if _, err := s.homeowners.FindByID(ctx, homeownerID); err != nil {
		return nil, 0, err
	}
	pitches, err := s.pitches.ListByHomeowner(ctx, homeownerID)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.pitches.CountByHomeowner(ctx, homeownerID)
	if err != nil {
		return nil, 0, err
	}
	return pitches, total, nil
}

func priorTexts(pitches []entity.Pitch) []string {
	texts := make([]string, 0, len(pitches))
	for _, p := range pitches {
		if p.Hidden != nil && p.Hidden.ExtractedText != "" {
			texts = append(texts, p.Hidden.ExtractedText)
			continue
		}
		texts = append(texts, p.Offer+" "+p.Reason)
	}
	return texts
}

// priorTimes returns submission times oldest first, the order the burst
// check expects.
func priorTimes(pitches []entity.Pitch) []time.Time {
	times := make([]time.Time, 0, len(pitches))
	for i := len(pitches) - 1; i >= 0; i-- {
		times = append(times, pitches[i].CreatedAt)
	}
	return times
}

func parseFillSeconds(raw string) float64 {
	if raw == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}
