package dto

import "github.com/scaninstead/api/internal/entity"

// PitchForm carries the raw multipart fields of a pitch submission. All
// values arrive as strings; the validation layer is the only component
// allowed to turn this into typed data.
type PitchForm struct {
	VisitorName  string `form:"visitorName"`
	Company      string `form:"company"`
	Offer        string `form:"offer"`
	Reason       string `form:"reason"`
	VisitorEmail string `form:"visitorEmail"`
	VisitorPhone string `form:"visitorPhone"`
	UserType     string `form:"userType"`
	FillSeconds  string `form:"fillSeconds"`
}

// PitchResponse is the submission reply contract.
type PitchResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Pitch   *entity.Pitch `json:"pitch,omitempty"`
}

// PitchListResponse wraps a homeowner's inbox. Total counts every pitch on
// record, not just the returned page.
type PitchListResponse struct {
	Success bool           `json:"success"`
	Total   int            `json:"total"`
	Pitches []entity.Pitch `json:"pitches"`
}
