package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scaninstead/api/internal/entity"
)

// ErrPitchNotFound is returned when no pitch matches the lookup.
var ErrPitchNotFound = errors.New("pitch not found")

// PitchesRepository declares persistence operations for pitches.
type PitchesRepository interface {
	Create(ctx context.Context, pitch *entity.Pitch) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Pitch, error)
	ListByHomeowner(ctx context.Context, homeownerID uuid.UUID) ([]entity.Pitch, error)
	CountByHomeowner(ctx context.Context, homeownerID uuid.UUID) (int, error)
	ListRecent(ctx context.Context, since time.Time) ([]entity.Pitch, error)
}

// PGXPitchesRepository implements PitchesRepository with pgx.
type PGXPitchesRepository struct {
	pool pgxPool
}

// NewPGXPitchesRepository instantiates a pitches repository.
func NewPGXPitchesRepository(pool *pgxpool.Pool) *PGXPitchesRepository {
	return &PGXPitchesRepository{pool: pool}
}

const pitchColumns = `id, homeowner_id, visitor_name, company, offer, reason, visitor_email, visitor_phone,
        file_url, file_name, user_type, created_at, ai_processed,
        sentiment, sentiment_confidence, ai_summary, detected_business_type, urgency, categories, is_spam,
        duplicate_score, sentiment_flag, intent_tag, urgency_score, keyword_meta, extracted_text,
        repetition_score, click_timing, bot_probability, next_action, conversion_probability`

// Create inserts a pitch row together with its analysis and internal scores.
// The pitch must carry a non-nil Analysis and Hidden record.
func (r *PGXPitchesRepository) Create(ctx context.Context, pitch *entity.Pitch) error {
	if pitch.Analysis == nil || pitch.Hidden == nil {
		return errors.New("pitch is missing analysis or internal scores")
	}

	_, err := r.pool.Exec(ctx, `
        INSERT INTO pitches (`+pitchColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
                $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
    `,
		pitch.ID, pitch.HomeownerID, pitch.VisitorName, pitch.Company, pitch.Offer, pitch.Reason,
		pitch.VisitorEmail, pitch.VisitorPhone, pitch.FileURL, pitch.FileName, pitch.UserType,
		pitch.CreatedAt, pitch.AIProcessed,
		pitch.Analysis.Sentiment, pitch.Analysis.SentimentConfidence, pitch.Analysis.Summary,
		pitch.Analysis.BusinessType, pitch.Analysis.Urgency, pitch.Analysis.Categories, pitch.Analysis.IsSpam,
		pitch.Hidden.DuplicateScore, pitch.Hidden.SentimentFlag, pitch.Hidden.IntentTag,
		pitch.Hidden.UrgencyScore, pitch.Hidden.KeywordMeta, pitch.Hidden.ExtractedText,
		pitch.Hidden.RepetitionScore, pitch.Hidden.ClickTiming, pitch.Hidden.BotProbability,
		pitch.Hidden.NextAction, pitch.Hidden.ConversionProbability,
	)
	if err != nil {
		return fmt.Errorf("insert pitch: %w", err)
	}
	return nil
}

// FindByID retrieves a pitch by identifier.
func (r *PGXPitchesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Pitch, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+pitchColumns+` FROM pitches WHERE id = $1`, id)
	pitch, err := scanPitch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPitchNotFound
		}
		return nil, fmt.Errorf("query pitch by id: %w", err)
	}
	return pitch, nil
}

// ListByHomeowner returns a homeowner's pitches, newest first.
func (r *PGXPitchesRepository) ListByHomeowner(ctx context.Context, homeownerID uuid.UUID) ([]entity.Pitch, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+pitchColumns+` FROM pitches WHERE homeowner_id = $1 ORDER BY created_at DESC`, homeownerID)
	if err != nil {
		return nil, fmt.Errorf("list pitches: %w", err)
	}
	defer rows.Close()
	return collectPitches(rows)
}

// CountByHomeowner returns the total number of pitches a homeowner has
// received, independent of any listing window.
func (r *PGXPitchesRepository) CountByHomeowner(ctx context.Context, homeownerID uuid.UUID) (int, error) {
	var count int
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pitches WHERE homeowner_id = $1`, homeownerID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count pitches: %w", err)
	}
	return count, nil
}

// ListRecent returns all pitches created at or after the cutoff, newest
// first. The anomaly sweep uses this across homeowners.
func (r *PGXPitchesRepository) ListRecent(ctx context.Context, since time.Time) ([]entity.Pitch, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+pitchColumns+` FROM pitches WHERE created_at >= $1 ORDER BY created_at DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("list recent pitches: %w", err)
	}
	defer rows.Close()
	return collectPitches(rows)
}

func collectPitches(rows pgx.Rows) ([]entity.Pitch, error) {
	var pitches []entity.Pitch
	for rows.Next() {
		pitch, err := scanPitch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pitch row: %w", err)
		}
		pitches = append(pitches, *pitch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pitches: %w", err)
	}
	return pitches, nil
}

func scanPitch(row pgx.Row) (*entity.Pitch, error) {
	var (
		pitch    entity.Pitch
		analysis entity.PitchAnalysis
		hidden   entity.HiddenScores
	)
	if err := row.Scan(
		&pitch.ID, &pitch.HomeownerID, &pitch.VisitorName, &pitch.Company, &pitch.Offer, &pitch.Reason,
		&pitch.VisitorEmail, &pitch.VisitorPhone, &pitch.FileURL, &pitch.FileName, &pitch.UserType,
		&pitch.CreatedAt, &pitch.AIProcessed,
		&analysis.Sentiment, &analysis.SentimentConfidence, &analysis.Summary,
		&analysis.BusinessType, &analysis.Urgency, &analysis.Categories, &analysis.IsSpam,
		&hidden.DuplicateScore, &hidden.SentimentFlag, &hidden.IntentTag,
		&hidden.UrgencyScore, &hidden.KeywordMeta, &hidden.ExtractedText,
		&hidden.RepetitionScore, &hidden.ClickTiming, &hidden.BotProbability,
		&hidden.NextAction, &hidden.ConversionProbability,
	); err != nil {
		return nil, err
	}
	pitch.Analysis = &analysis
	pitch.Hidden = &hidden
	return &pitch, nil
}
