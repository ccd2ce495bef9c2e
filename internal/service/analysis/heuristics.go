package analysis

import (
	"strings"
	"unicode"

	"github.com/scaninstead/api/internal/entity"
)

// Local keyword heuristics backing every provider call. Each one mirrors the
// signal its remote counterpart produces so a degraded result still carries
// the same shape.

var positiveWords = []string{
	"excellent", "premium", "professional", "warranty",
	"discount", "quality", "experienced", "trusted",
}

var negativeWords = []string{
	"urgent", "immediate", "problems", "damage",
	"failing", "emergency", "critical",
}

var spamKeywords = []string{
	"win", "winner", "prize", "free money", "urgent", "act now",
	"claim", "cash prize", "congratulations", "limited offer",
	"click here", "guarantee", "risk-free", "no obligation",
}

var highUrgencyPhrases = []string{"urgent", "emergency", "immediate", "asap", "today", "now"}

var mediumUrgencyPhrases = []string{"soon", "this week", "limited time", "offer expires"}

// businessCategory pairs a display label with the keywords that map to it.
// Order matters: the first matching category wins, so narrow trades come
// before the broad home improvement bucket.
type businessCategory struct {
	label    string
	keywords []string
}

var businessCategories = []businessCategory{
	{"Roofing", []string{"roof", "shingle", "gutter"}},
	{"Plumbing", []string{"plumb", "pipe", "drain", "leak", "water heater"}},
	{"Electrical", []string{"electric", "wiring", "breaker", "outlet"}},
	{"HVAC", []string{"hvac", "heating", "cooling", "furnace", "air condition"}},
	{"Landscaping", []string{"landscap", "lawn", "garden", "tree", "mowing"}},
	{"Painting", []string{"paint", "stain", "coating"}},
	{"Flooring", []string{"floor", "carpet", "tile", "hardwood"}},
	{"Windows & Doors", []string{"window", "door", "glass"}},
	{"Pest Control", []string{"pest", "termite", "rodent", "exterminat"}},
	{"Cleaning", []string{"clean", "maid", "janitorial", "pressure wash"}},
	{"Solar", []string{"solar", "panel"}},
	{"Security", []string{"security", "alarm", "camera", "surveillance"}},
	{"Insulation", []string{"insulation", "weatheriz"}},
	{"Masonry", []string{"masonry", "brick", "concrete", "stone"}},
	{"Fencing", []string{"fence", "fencing", "gate"}},
	{"Pool & Spa", []string{"pool", "spa", "hot tub"}},
	{"Moving", []string{"moving", "mover", "relocation"}},
	{"Real Estate", []string{"real estate", "realtor", "property", "listing"}},
	{"Insurance", []string{"insurance", "coverage", "policy"}},
	{"Financial Services", []string{"loan", "mortgage", "refinanc", "financial"}},
	{"Internet & Cable", []string{"internet", "cable", "fiber", "broadband"}},
	{"Home Improvement", []string{"home improvement", "renovation", "remodel"}},
	{"Appliance Repair", []string{"appliance", "refrigerator", "washer", "dryer"}},
	{"Locksmith", []string{"locksmith", "lock", "key"}},
	{"Chimney", []string{"chimney", "fireplace"}},
	{"Other", nil},
}

const heuristicConfidence = 0.65

// heuristicSentiment counts positive versus negative marketing vocabulary.
// Ties fall to neutral.
func heuristicSentiment(text string) (string, float64) {
	lower := strings.ToLower(text)

	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return entity.SentimentPositive, heuristicConfidence
	case neg > pos:
		return entity.SentimentNegative, heuristicConfidence
	default:
		return entity.SentimentNeutral, heuristicConfidence
	}
}

// heuristicSpam flags the classic scam shapes: keyword stuffing, exclamation
// runs, and shouting.
func heuristicSpam(text string) bool {
	lower := strings.ToLower(text)

	hits := 0
	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	if hits >= 3 {
		return true
	}

	if exclamationRuns(text) > 2 {
		return true
	}

	return capsWords(text) > 5
}

// exclamationRuns counts separate runs of three or more exclamation marks.
func exclamationRuns(text string) int {
	runs := 0
	run := 0
	for _, r := range text {
		if r == '!' {
			run++
			continue
		}
		if run >= 3 {
			runs++
		}
		run = 0
	}
	if run >= 3 {
		runs++
	}
	return runs
}

// capsWords counts fully upper-case words longer than three letters.
func capsWords(text string) int {
	count := 0
	for _, word := range strings.Fields(text) {
		letters := 0
		upper := true
		for _, r := range word {
			if !unicode.IsLetter(r) {
				continue
			}
			letters++
			if !unicode.IsUpper(r) {
				upper = false
				break
			}
		}
		if upper && letters > 3 {
			count++
		}
	}
	return count
}

// heuristicUrgency is rule based only; there is no remote counterpart.
func heuristicUrgency(text string) string {
	lower := strings.ToLower(text)
	for _, phrase := range highUrgencyPhrases {
		if strings.Contains(lower, phrase) {
			return entity.UrgencyHigh
		}
	}
	for _, phrase := range mediumUrgencyPhrases {
		if strings.Contains(lower, phrase) {
			return entity.UrgencyMedium
		}
	}
	return entity.UrgencyLow
}

// heuristicBusinessType scans the ordered category list and returns the first
// label whose keywords appear in the text.
func heuristicBusinessType(text string) string {
	lower := strings.ToLower(text)
	for _, cat := range businessCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.label
			}
		}
	}
	return "Other"
}

// categoryLabels is the fixed tag set for zero-shot category extraction.
var categoryLabels = []string{
	"urgent", "discount", "limited-time", "consultation", "estimate",
	"maintenance", "repair", "installation", "upgrade",
}

// heuristicSummary truncates long text at 100 characters on a rune boundary.
func heuristicSummary(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= 100 {
		return string(runes)
	}
	return string(runes[:100]) + "..."
}

// candidateLabels returns the zero-shot label set for business type
// classification.
func candidateLabels() []string {
	labels := make([]string, 0, len(businessCategories))
	for _, cat := range businessCategories {
		labels = append(labels, cat.label)
	}
	return labels
}
