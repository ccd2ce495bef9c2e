package entity

import (
	"time"

	"github.com/google/uuid"
)

// User types a pitch can be submitted as.
const (
	UserTypeHomeowner       = "homeowner"
	UserTypeServiceProvider = "service_provider"
)

// Sentiment labels produced by the analysis engine.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Urgency levels produced by the analysis engine.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Pitch is a single visitor-submitted business proposal directed at one homeowner.
// Pitches are immutable after creation.
type Pitch struct {
	ID           uuid.UUID `json:"id"`
	HomeownerID  uuid.UUID `json:"homeownerId"`
	VisitorName  string    `json:"visitorName"`
	Company      *string   `json:"company,omitempty"`
	Offer        string    `json:"offer"`
	Reason       string    `json:"reason"`
	VisitorEmail *string   `json:"visitorEmail,omitempty"`
	VisitorPhone *string   `json:"visitorPhone,omitempty"`
	FileURL      *string   `json:"fileUrl,omitempty"`
	FileName     *string   `json:"fileName,omitempty"`
	UserType     string    `json:"userType"`
	CreatedAt    time.Time `json:"createdAt"`

	// Analysis is attached as one unit before persistence; nil means the
	// engine never ran for this pitch.
	Analysis    *PitchAnalysis `json:"analysis,omitempty"`
	AIProcessed bool           `json:"aiProcessed"`

	// Hidden carries derived triage scores that are stored but never
	// rendered in the primary UI.
	Hidden *HiddenScores `json:"-"`
}

// PitchAnalysis is the structured output of the content analysis engine.
type PitchAnalysis struct {
	Sentiment           string   `json:"sentiment"`
	SentimentConfidence float64  `json:"sentimentConfidence"`
	Summary             string   `json:"aiSummary"`
	BusinessType        string   `json:"detectedBusinessType"`
	Urgency             string   `json:"urgency"`
	Categories          []string `json:"categories"`
	IsSpam              bool     `json:"isSpam"`
}

// HiddenScores are auxiliary derived values, write-once at creation and
// never user-supplied. They feed lead triage and are kept out of public
// API responses.
type HiddenScores struct {
	DuplicateScore        float64
	SentimentFlag         string
	IntentTag             string
	UrgencyScore          float64
	KeywordMeta           string
	ExtractedText         string
	RepetitionScore       float64
	ClickTiming           float64
	BotProbability        float64
	NextAction            string
	ConversionProbability float64
}
