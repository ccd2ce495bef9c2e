package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/scaninstead/api/internal/entity"
)

type stubClassifier struct {
	scores []LabelScore
	err    error
	delay  time.Duration
}

func (s *stubClassifier) Classify(ctx context.Context, text string) ([]LabelScore, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.scores, s.err
}

type stubZeroShot struct {
	scores    []LabelScore
	catScores []LabelScore
	err       error
}

func (s *stubZeroShot) ClassifyLabels(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(labels) > 0 && labels[0] == "urgent" {
		return s.catScores, nil
	}
	return s.scores, nil
}

type stubSummarizer struct {
	summary string
	err     error
}

func (s *stubSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.summary, s.err
}

func TestAnalyzeWithProviders(t *testing.T) {
	engine := NewEngine(Providers{
		Sentiment:  &stubClassifier{scores: []LabelScore{{Label: "POSITIVE", Score: 0.93}, {Label: "NEGATIVE", Score: 0.07}}},
		Toxicity:   &stubClassifier{scores: []LabelScore{{Label: "toxic", Score: 0.12}}},
		ZeroShot: &stubZeroShot{
			scores:    []LabelScore{{Label: "Roofing", Score: 0.88}, {Label: "Home Improvement", Score: 0.35}, {Label: "Other", Score: 0.1}},
			catScores: []LabelScore{{Label: "repair", Score: 0.81}, {Label: "estimate", Score: 0.44}, {Label: "discount", Score: 0.12}},
		},
		Summarizer: &stubSummarizer{summary: "Roof repair offer."},
	}, time.Second, zerolog.Nop())

	analysis := engine.Analyze(context.Background(), "Roof repair and gutter cleaning", "Loose shingles spotted")
	if analysis == nil {
		t.Fatal("expected non-nil analysis")
	}
	if analysis.Sentiment != entity.SentimentPositive || analysis.SentimentConfidence != 0.93 {
		t.Errorf("expected positive 0.93, got %s %v", analysis.Sentiment, analysis.SentimentConfidence)
	}
	if analysis.BusinessType != "Roofing" {
		t.Errorf("expected Roofing, got %q", analysis.BusinessType)
	}
	if analysis.IsSpam {
		t.Error("expected not spam below toxicity threshold")
	}
	if analysis.Summary != "Roof repair offer." {
		t.Errorf("expected model summary, got %q", analysis.Summary)
	}
	if len(analysis.Categories) != 2 || analysis.Categories[0] != "repair" || analysis.Categories[1] != "estimate" {
		t.Errorf("expected two categories above threshold, got %v", analysis.Categories)
	}
	if analysis.Urgency != entity.UrgencyLow {
		t.Errorf("expected low urgency, got %q", analysis.Urgency)
	}
}

func TestAnalyzeFallsBackPerSignal(t *testing.T) {
	boom := errors.New("model down")
	engine := NewEngine(Providers{
		Sentiment:  &stubClassifier{err: boom},
		Toxicity:   &stubClassifier{err: boom},
		ZeroShot:   &stubZeroShot{err: boom},
		Summarizer: &stubSummarizer{err: boom},
	}, time.Second, zerolog.Nop())

	analysis := engine.Analyze(context.Background(), "Roof repair for your home", "Noticed loose shingles, we offer a warranty")
	if analysis == nil {
		t.Fatal("expected non-nil analysis")
	}
	if analysis.BusinessType != "Roofing" {
		t.Errorf("expected heuristic Roofing fallback, got %q", analysis.BusinessType)
	}
	if analysis.Sentiment != entity.SentimentPositive {
		t.Errorf("expected heuristic positive from warranty, got %q", analysis.Sentiment)
	}
	if analysis.SentimentConfidence != heuristicConfidence {
		t.Errorf("expected heuristic confidence, got %v", analysis.SentimentConfidence)
	}
	if analysis.IsSpam {
		t.Error("expected heuristic spam false")
	}
	if analysis.Summary == "" {
		t.Error("expected truncation summary, got empty")
	}
}

func TestAnalyzeNilProviders(t *testing.T) {
	engine := NewEngine(Providers{}, time.Second, zerolog.Nop())

	analysis := engine.Analyze(context.Background(), "Emergency plumbing, pipe burst repair", "Your water heater is failing")
	if analysis == nil {
		t.Fatal("expected non-nil analysis")
	}
	if analysis.BusinessType != "Plumbing" {
		t.Errorf("expected Plumbing, got %q", analysis.BusinessType)
	}
	if analysis.Urgency != entity.UrgencyHigh {
		t.Errorf("expected high urgency for emergency, got %q", analysis.Urgency)
	}
	if analysis.Sentiment != entity.SentimentNegative {
		t.Errorf("expected negative from emergency and failing, got %q", analysis.Sentiment)
	}
}

func TestAnalyzeTimeoutFallsBack(t *testing.T) {
	engine := NewEngine(Providers{
		Sentiment: &stubClassifier{
			scores: []LabelScore{{Label: "NEGATIVE", Score: 0.99}},
			delay:  200 * time.Millisecond,
		},
	}, 20*time.Millisecond, zerolog.Nop())

	analysis := engine.Analyze(context.Background(), "premium quality warranty work", "trusted crew")
	if analysis.Sentiment != entity.SentimentPositive {
		t.Errorf("expected heuristic positive after timeout, got %q", analysis.Sentiment)
	}
}

func TestAnalyzeSpamAboveThreshold(t *testing.T) {
	engine := NewEngine(Providers{
		Toxicity: &stubClassifier{scores: []LabelScore{{Label: "toxic", Score: 0.91}}},
	}, time.Second, zerolog.Nop())

	analysis := engine.Analyze(context.Background(), "plain offer", "plain reason")
	if !analysis.IsSpam {
		t.Error("expected spam above toxicity threshold")
	}
}

func TestSafeDefault(t *testing.T) {
	analysis := SafeDefault("some offer text")
	if analysis.Sentiment != entity.SentimentNeutral || analysis.SentimentConfidence != 0.5 {
		t.Errorf("expected neutral 0.5, got %s %v", analysis.Sentiment, analysis.SentimentConfidence)
	}
	if analysis.BusinessType != "Unknown" {
		t.Errorf("expected Unknown, got %q", analysis.BusinessType)
	}
	if analysis.Urgency != entity.UrgencyMedium {
		t.Errorf("expected medium urgency, got %q", analysis.Urgency)
	}
	if len(analysis.Categories) != 1 || analysis.Categories[0] != "general" {
		t.Errorf("expected [general], got %v", analysis.Categories)
	}
	if analysis.IsSpam {
		t.Error("expected safe default not spam")
	}
}

type panickyClassifier struct{}

func (panickyClassifier) Classify(ctx context.Context, text string) ([]LabelScore, error) {
	panic("classifier exploded")
}

type panickyZeroShot struct{}

func (panickyZeroShot) ClassifyLabels(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	panic("zero-shot exploded")
}

type panickySummarizer struct{}

func (panickySummarizer) Summarize(ctx context.Context, text string) (string, error) {
	panic("summarizer exploded")
}

func TestAnalyzeSurvivesPanickingProviders(t *testing.T) {
	engine := NewEngine(Providers{
		Sentiment:  panickyClassifier{},
		Toxicity:   panickyClassifier{},
		ZeroShot:   panickyZeroShot{},
		Summarizer: panickySummarizer{},
	}, time.Second, zerolog.Nop())

	analysis := engine.Analyze(context.Background(), "Roof repair offer", "Loose shingles spotted")
	if analysis == nil {
		t.Fatal("expected non-nil analysis")
	}
	if analysis.Sentiment != entity.SentimentNeutral || analysis.SentimentConfidence != 0.5 {
		t.Errorf("expected neutral 0.5 after panic, got %s %v", analysis.Sentiment, analysis.SentimentConfidence)
	}
	if analysis.BusinessType != "Unknown" {
		t.Errorf("expected Unknown after panic, got %q", analysis.BusinessType)
	}
	if analysis.Summary == "" {
		t.Error("expected backfilled summary, got empty")
	}
	if len(analysis.Categories) != 1 || analysis.Categories[0] != "general" {
		t.Errorf("expected [general] after panic, got %v", analysis.Categories)
	}
	if analysis.IsSpam {
		t.Error("expected not spam after panic")
	}
	if analysis.Urgency != entity.UrgencyLow {
		t.Errorf("expected low urgency from rule pass, got %q", analysis.Urgency)
	}
}
