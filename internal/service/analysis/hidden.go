package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/scaninstead/api/internal/entity"
)

// Internal lead-intelligence signals derived at submission time. None of
// these are exposed through the API; they feed dashboards and the anomaly
// sweep.

const (
	duplicateSimilarityFloor = 0.6
	rapidGapSeconds          = 60
	rapidGapLimit            = 3
)

var intentPatterns = []struct {
	tag     string
	phrases []string
}{
	{"quote_request", []string{"quote", "estimate", "how much", "pricing", "price"}},
	{"scheduling", []string{"schedule", "appointment", "available", "when can", "book"}},
	{"complaint", []string{"complaint", "unhappy", "dissatisfied", "refund", "terrible"}},
	{"information", []string{"question", "wondering", "curious", "information", "details"}},
	{"sales_pitch", []string{"offer", "service", "provide", "special", "deal"}},
}

// HiddenInput carries the context needed to derive the internal scores for a
// new submission.
type HiddenInput struct {
	Offer       string
	Reason      string
	PriorTexts  []string
	PriorTimes  []time.Time
	FillSeconds float64
	SubmittedAt time.Time
}

// DeriveHidden computes the internal scoring record for a submission given
// the homeowner's prior pitch history.
func DeriveHidden(in HiddenInput, analysis *entity.PitchAnalysis) *entity.HiddenScores {
	text := strings.TrimSpace(in.Offer + " " + in.Reason)
	lower := strings.ToLower(text)

	duplicate := maxSimilarity(lower, in.PriorTexts)
	intent := intentTag(lower)
	repetition := repetitionScore(lower)
	bot := botProbability(in, duplicate, repetition)

	hidden := &entity.HiddenScores{
		DuplicateScore:        duplicate,
		IntentTag:             intent,
		KeywordMeta:           keywordMeta(lower),
		ExtractedText:         text,
		RepetitionScore:       repetition,
		ClickTiming:           in.FillSeconds,
		BotProbability:        bot,
		NextAction:            nextAction(intent),
		ConversionProbability: conversionProbability(analysis, intent),
	}
	if analysis != nil {
		hidden.SentimentFlag = analysis.Sentiment
		hidden.UrgencyScore = urgencyScore(analysis.Urgency)
	}
	return hidden
}

// maxSimilarity returns the highest Jaccard word overlap between the text and
// any prior submission.
func maxSimilarity(text string, priors []string) float64 {
	best := 0.0
	for _, prior := range priors {
		if s := jaccard(text, strings.ToLower(prior)); s > best {
			best = s
		}
	}
	return round2(best)
}

func jaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersect := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersect++
		}
	}
	union := len(setA) + len(setB) - intersect
	return float64(intersect) / float64(union)
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) > 2 {
			set[w] = struct{}{}
		}
	}
	return set
}

// intentTag maps the text onto the first matching intent pattern.
func intentTag(lower string) string {
	for _, p := range intentPatterns {
		for _, phrase := range p.phrases {
			if strings.Contains(lower, phrase) {
				return p.tag
			}
		}
	}
	return "general"
}

// repetitionScore is the fraction of words that repeat within the text.
func repetitionScore(lower string) float64 {
	words := strings.Fields(lower)
	if len(words) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return round2(1 - float64(len(seen))/float64(len(words)))
}

// botProbability blends the mechanical signals: near-duplicate content, very
// fast form fill, heavy repetition, and a rapid-submission burst.
func botProbability(in HiddenInput, duplicate, repetition float64) float64 {
	score := 0.0
	if duplicate > duplicateSimilarityFloor {
		score += 0.35
	}
	if in.FillSeconds > 0 && in.FillSeconds < 3 {
		score += 0.3
	}
	if repetition > 0.5 {
		score += 0.15
	}
	if rapidBurst(in.PriorTimes, in.SubmittedAt) {
		score += 0.2
	}
	return round2(math.Min(score, 1))
}

// rapidBurst reports whether the submission extends a run of more than three
// consecutive gaps under a minute.
func rapidBurst(priors []time.Time, now time.Time) bool {
	if now.IsZero() || len(priors) < rapidGapLimit {
		return false
	}

	times := append(append([]time.Time(nil), priors...), now)
	gaps := 0
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		if gap >= 0 && gap < rapidGapSeconds*time.Second {
			gaps++
			if gaps > rapidGapLimit {
				return true
			}
		} else {
			gaps = 0
		}
	}
	return false
}

// keywordMeta records which spam and urgency keywords fired, as JSON.
func keywordMeta(lower string) string {
	meta := struct {
		Spam    []string `json:"spam"`
		Urgency []string `json:"urgency"`
	}{Spam: []string{}, Urgency: []string{}}

	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw) {
			meta.Spam = append(meta.Spam, kw)
		}
	}
	for _, kw := range highUrgencyPhrases {
		if strings.Contains(lower, kw) {
			meta.Urgency = append(meta.Urgency, kw)
		}
	}
	for _, kw := range mediumUrgencyPhrases {
		if strings.Contains(lower, kw) {
			meta.Urgency = append(meta.Urgency, kw)
		}
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func urgencyScore(urgency string) float64 {
	switch urgency {
	case entity.UrgencyHigh:
		return 0.9
	case entity.UrgencyMedium:
		return 0.5
	default:
		return 0.1
	}
}

func nextAction(intent string) string {
	switch intent {
	case "quote_request":
		return "send_quote"
	case "scheduling":
		return "propose_time"
	case "complaint":
		return "escalate"
	case "information":
		return "send_details"
	default:
		return "review"
	}
}

// conversionProbability is a coarse prior from sentiment, spam, and intent.
func conversionProbability(analysis *entity.PitchAnalysis, intent string) float64 {
	p := 0.3
	if analysis != nil {
		if analysis.IsSpam {
			return 0.05
		}
		switch analysis.Sentiment {
		case entity.SentimentPositive:
			p += 0.2
		case entity.SentimentNegative:
			p -= 0.1
		}
	}
	switch intent {
	case "quote_request", "scheduling":
		p += 0.2
	case "complaint":
		p -= 0.15
	}
	return round2(math.Max(0.05, math.Min(p, 0.95)))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
