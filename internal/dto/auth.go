package dto

// SignupRequest creates a homeowner account with credentials.
type SignupRequest struct {
	FullName               string `json:"fullName"`
	Email                  string `json:"email"`
	Password               string `json:"password"`
	Phone                  string `json:"phone,omitempty"`
	NotificationPreference string `json:"notificationPreference,omitempty"`
}

// SigninRequest captures credential input.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse contains the issued access token.
type AuthResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken,omitempty"`
	HomeownerID string `json:"homeownerId,omitempty"`
	Message     string `json:"message,omitempty"`
}
