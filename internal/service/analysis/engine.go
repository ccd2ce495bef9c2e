package analysis

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scaninstead/api/internal/entity"
)

const (
	defaultCallTimeout = 6 * time.Second

	spamThreshold     = 0.7
	categoryThreshold = 0.3
)

// Classifier scores a text against a model's fixed label set, for example a
// sentiment or toxicity model.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]LabelScore, error)
}

// ZeroShotClassifier scores a text against caller-supplied candidate labels.
type ZeroShotClassifier interface {
	ClassifyLabels(ctx context.Context, text string, labels []string) ([]LabelScore, error)
}

// Summarizer condenses a text into a short abstract.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// LabelScore is one scored label from a classification call.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Providers holds the remote model clients the engine fans out to. Any field
// may be nil; the engine then uses the local heuristic for that signal.
type Providers struct {
	Sentiment  Classifier
	Toxicity   Classifier
	ZeroShot   ZeroShotClassifier
	Summarizer Summarizer
}

// Engine produces a PitchAnalysis for every submission. Remote calls run
// concurrently with individual timeouts and degrade to keyword heuristics on
// any failure, so Analyze never returns an error and never blocks longer
// than one call timeout.
type Engine struct {
	providers Providers
	timeout   time.Duration
	log       zerolog.Logger
}

// NewEngine builds an engine. A non-positive timeout falls back to the
// default per-call timeout.
func NewEngine(providers Providers, timeout time.Duration, log zerolog.Logger) *Engine {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Engine{providers: providers, timeout: timeout, log: log}
}

// Analyze runs all signals over the combined offer and reason text. The
// returned analysis is always non-nil; a total failure yields the safe
// neutral default.
func (e *Engine) Analyze(ctx context.Context, offer, reason string) (result *entity.PitchAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("analysis panicked, returning safe default")
			result = SafeDefault(offer)
		}
	}()

	text := strings.TrimSpace(offer + " " + reason)
	analysis := &entity.PitchAnalysis{}

	var wg sync.WaitGroup
	wg.Add(5)

	// A panic in a provider implementation must not escape its goroutine;
	// the signal is left zero and backfilled below.
	run := func(signal string, fn func()) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.log.Error().Interface("panic", r).Str("signal", signal).Msg("analysis signal panicked")
			}
		}()
		fn()
	}

	go run("sentiment", func() {
		analysis.Sentiment, analysis.SentimentConfidence = e.sentiment(ctx, text)
	})
	go run("business_type", func() {
		analysis.BusinessType = e.businessType(ctx, text)
	})
	go run("spam", func() {
		analysis.IsSpam = e.spam(ctx, text)
	})
	go run("summary", func() {
		analysis.Summary = e.summary(ctx, text)
	})
	go run("categories", func() {
		analysis.Categories = e.categories(ctx, text)
	})
	wg.Wait()

	if analysis.Sentiment == "" {
		analysis.Sentiment, analysis.SentimentConfidence = entity.SentimentNeutral, 0.5
	}
	if analysis.BusinessType == "" {
		analysis.BusinessType = "Unknown"
	}
	if analysis.Summary == "" {
		analysis.Summary = heuristicSummary(offer)
	}
	if analysis.Categories == nil {
		analysis.Categories = []string{"general"}
	}

	analysis.Urgency = heuristicUrgency(text)
	return analysis
}

// SafeDefault is the analysis recorded when everything, heuristics included,
// is unavailable.
func SafeDefault(offer string) *entity.PitchAnalysis {
	return &entity.PitchAnalysis{
		Sentiment:           entity.SentimentNeutral,
		SentimentConfidence: 0.5,
		Summary:             heuristicSummary(offer),
		BusinessType:        "Unknown",
		Urgency:             entity.UrgencyMedium,
		Categories:          []string{"general"},
		IsSpam:              false,
	}
}

func (e *Engine) sentiment(ctx context.Context, text string) (string, float64) {
	if e.providers.Sentiment != nil {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		scores, err := e.providers.Sentiment.Classify(callCtx, text)
		if err == nil && len(scores) > 0 {
			best := topScore(scores)
			if label := normalizeSentiment(best.Label); label != "" {
				return label, best.Score
			}
		}
		if err != nil {
			e.log.Warn().Err(err).Msg("sentiment model unavailable, using heuristic")
		}
	}
	return heuristicSentiment(text)
}

func (e *Engine) businessType(ctx context.Context, text string) string {
	if e.providers.ZeroShot != nil {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		scores, err := e.providers.ZeroShot.ClassifyLabels(callCtx, text, candidateLabels())
		if err == nil && len(scores) > 0 {
			return topScore(scores).Label
		}
		if err != nil {
			e.log.Warn().Err(err).Msg("business type model unavailable, using heuristic")
		}
	}
	return heuristicBusinessType(text)
}

func (e *Engine) spam(ctx context.Context, text string) bool {
	if e.providers.Toxicity != nil {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		scores, err := e.providers.Toxicity.Classify(callCtx, text)
		if err == nil && len(scores) > 0 {
			for _, s := range scores {
				if strings.EqualFold(s.Label, "toxic") && s.Score > spamThreshold {
					return true
				}
			}
			return false
		}
		if err != nil {
			e.log.Warn().Err(err).Msg("toxicity model unavailable, using heuristic")
		}
	}
	return heuristicSpam(text)
}

func (e *Engine) summary(ctx context.Context, text string) string {
	if e.providers.Summarizer != nil {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		summary, err := e.providers.Summarizer.Summarize(callCtx, text)
		if err == nil && strings.TrimSpace(summary) != "" {
			return strings.TrimSpace(summary)
		}
		if err != nil {
			e.log.Warn().Err(err).Msg("summarizer unavailable, using truncation")
		}
	}
	return heuristicSummary(text)
}

func (e *Engine) categories(ctx context.Context, text string) []string {
	if e.providers.ZeroShot != nil {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		scores, err := e.providers.ZeroShot.ClassifyLabels(callCtx, text, categoryLabels)
		if err == nil && len(scores) > 0 {
			var labels []string
			for _, s := range scores {
				if s.Score > categoryThreshold {
					labels = append(labels, s.Label)
				}
			}
			if len(labels) > 0 {
				return labels
			}
			return []string{"general"}
		}
		if err != nil {
			e.log.Warn().Err(err).Msg("category model unavailable, using default tag")
		}
	}
	return []string{"general"}
}

func topScore(scores []LabelScore) LabelScore {
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best
}

// normalizeSentiment maps model label conventions onto the stored vocabulary.
func normalizeSentiment(label string) string {
	switch strings.ToUpper(label) {
	case "POSITIVE", "LABEL_2", "POS":
		return entity.SentimentPositive
	case "NEGATIVE", "LABEL_0", "NEG":
		return entity.SentimentNegative
	case "NEUTRAL", "LABEL_1":
		return entity.SentimentNeutral
	default:
		return ""
	}
}
