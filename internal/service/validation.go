package service

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/html"

	"github.com/scaninstead/api/internal/dto"
	"github.com/scaninstead/api/internal/entity"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-']+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	maxVisitorNameLen = 100
	maxCompanyLen     = 100
	maxOfferLen       = 500
	maxReasonLen      = 1000

	defaultPhoneRegion = "US"
)

// Formatting tags preserved by the sanitizer; they are reused verbatim in
// outbound email rendering.
var allowedTags = map[string]struct{}{
	"b": {}, "i": {}, "em": {}, "strong": {}, "u": {}, "p": {}, "br": {},
}

// FieldViolation describes a single failed validation rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidatedPitch is the typed, sanitized result of a successful validation
// pass. Downstream components never accept the raw form.
type ValidatedPitch struct {
	VisitorName  string
	Company      *string
	Offer        string
	Reason       string
	VisitorEmail *string
	VisitorPhone *string
	UserType     string
}

// PitchValidator applies field rules and markup sanitization to untrusted
// submission input.
type PitchValidator struct {
	phoneRegion string
}

// NewPitchValidator builds a validator; region is used when parsing phone
// numbers without a country prefix.
func NewPitchValidator(region string) *PitchValidator {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &PitchValidator{phoneRegion: region}
}

// Validate checks every rule and returns either a typed record or the full
// list of violations. No partial results: any violation rejects the whole
// submission.
func (v *PitchValidator) Validate(form dto.PitchForm) (ValidatedPitch, []FieldViolation) {
	var violations []FieldViolation

	name := SanitizeHTML(strings.TrimSpace(form.VisitorName))
	switch {
	case name == "":
		violations = append(violations, FieldViolation{Field: "visitorName", Message: "visitor name is required"})
	case len([]rune(name)) > maxVisitorNameLen:
		violations = append(violations, FieldViolation{Field: "visitorName", Message: "visitor name must be at most 100 characters"})
	}

	offer := SanitizeHTML(strings.TrimSpace(form.Offer))
	switch {
	case offer == "":
		violations = append(violations, FieldViolation{Field: "offer", Message: "offer is required"})
	case len([]rune(offer)) > maxOfferLen:
		violations = append(violations, FieldViolation{Field: "offer", Message: "offer must be at most 500 characters"})
	}

	reason := SanitizeHTML(strings.TrimSpace(form.Reason))
	switch {
	case reason == "":
		violations = append(violations, FieldViolation{Field: "reason", Message: "reason is required"})
	case len([]rune(reason)) > maxReasonLen:
		violations = append(violations, FieldViolation{Field: "reason", Message: "reason must be at most 1000 characters"})
	}

	var company *string
	if c := SanitizeHTML(strings.TrimSpace(form.Company)); c != "" {
		if len([]rune(c)) > maxCompanyLen {
			violations = append(violations, FieldViolation{Field: "company", Message: "company must be at most 100 characters"})
		} else {
			company = &c
		}
	}

	var email *string
	if e := strings.ToLower(strings.TrimSpace(form.VisitorEmail)); e != "" {
		if !emailPattern.MatchString(e) {
			violations = append(violations, FieldViolation{Field: "visitorEmail", Message: "visitor email is not a valid address"})
		} else {
			email = &e
		}
	}

	var phone *string
	if p := strings.TrimSpace(form.VisitorPhone); p != "" {
		normalized := normalizePhone(p, v.phoneRegion)
		if normalized == "" {
			violations = append(violations, FieldViolation{Field: "visitorPhone", Message: "visitor phone is not a valid number"})
		} else {
			phone = &normalized
		}
	}

	userType := strings.TrimSpace(form.UserType)
	switch userType {
	case "":
		userType = entity.UserTypeServiceProvider
	case entity.UserTypeHomeowner, entity.UserTypeServiceProvider:
	default:
		violations = append(violations, FieldViolation{Field: "userType", Message: "user type must be homeowner or service_provider"})
	}

	if len(violations) > 0 {
		return ValidatedPitch{}, violations
	}

	return ValidatedPitch{
		VisitorName:  name,
		Company:      company,
		Offer:        offer,
		Reason:       reason,
		VisitorEmail: email,
		VisitorPhone: phone,
		UserType:     userType,
	}, nil
}

// SanitizeHTML removes executable markup from untrusted text. Script and
// style elements are dropped with their content, all attributes are
// discarded, and only the small formatting whitelist survives as tags;
// anything else is unwrapped to its text.
func SanitizeHTML(input string) string {
	if !strings.ContainsAny(input, "<>") {
		return input
	}

	tokenizer := html.NewTokenizer(strings.NewReader(input))
	var b strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			if skipDepth == 0 {
				b.WriteString(string(tokenizer.Text()))
			}
		case html.StartTagToken:
			tag := tagName(tokenizer)
			if tag == "script" || tag == "style" {
				skipDepth++
				continue
			}
			if skipDepth == 0 {
				if _, ok := allowedTags[tag]; ok {
					b.WriteString("<" + tag + ">")
				}
			}
		case html.EndTagToken:
			tag := tagName(tokenizer)
			if tag == "script" || tag == "style" {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth == 0 {
				if _, ok := allowedTags[tag]; ok {
					b.WriteString("</" + tag + ">")
				}
			}
		case html.SelfClosingTagToken:
			tag := tagName(tokenizer)
			if skipDepth == 0 {
				if _, ok := allowedTags[tag]; ok {
					b.WriteString("<" + tag + "/>")
				}
			}
		}
	}
}

func tagName(tokenizer *html.Tokenizer) string {
	name, _ := tokenizer.TagName()
	return strings.ToLower(string(name))
}

func normalizePhone(raw, region string) string {
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
