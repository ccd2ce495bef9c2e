package dto

import "github.com/scaninstead/api/internal/entity"

// CreateHomeownerRequest is the minimal registration payload.
type CreateHomeownerRequest struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email"`
}

// RegisterHomeownerRequest completes a homeowner profile.
type RegisterHomeownerRequest struct {
	FullName               string `json:"fullName"`
	Email                  string `json:"email"`
	Phone                  string `json:"phone"`
	NotificationPreference string `json:"notificationPreference"`
}

// HomeownerResponse wraps a single homeowner record.
type HomeownerResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Homeowner *entity.Homeowner `json:"homeowner,omitempty"`
}
