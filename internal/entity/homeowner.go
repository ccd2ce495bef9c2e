package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification preferences a homeowner can choose from.
const (
	NotifyEmail = "email"
	NotifyPhone = "phone"
	NotifyBoth  = "both"
)

// Homeowner owns a QR code and receives pitches through it.
type Homeowner struct {
	ID                     uuid.UUID `json:"id"`
	FullName               string    `json:"fullName"`
	Email                  string    `json:"email"`
	Phone                  *string   `json:"phone,omitempty"`
	PasswordHash           string    `json:"-"`
	IsRegistered           bool      `json:"isRegistered"`
	NotificationPreference string    `json:"notificationPreference"`
	QRUrl                  string    `json:"qrUrl"`
	PitchURL               string    `json:"pitchUrl"`
	CreatedAt              time.Time `json:"createdAt"`
}

// WantsEmail reports whether email notifications are enabled.
func (h *Homeowner) WantsEmail() bool {
	return h.NotificationPreference == NotifyEmail || h.NotificationPreference == NotifyBoth
}

// WantsSMS reports whether SMS notifications are enabled.
func (h *Homeowner) WantsSMS() bool {
	return (h.NotificationPreference == NotifyPhone || h.NotificationPreference == NotifyBoth) && h.Phone != nil
}
