package dto

type OAuthStartResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

type OAuthCallbackResponse struct {
	UserID     string `json:"user_id"`
	Authorized bool   `json:"authorized"`
}

type CreateEventRequest struct {
	UserID    string   `json:"user_id" validate:"required"`
	Summary   string   `json:"summary"`
	StartISO  string   `json:"start_iso" validate:"required"`
	EndISO    string   `json:"end_iso" validate:"required"`
	Attendees []string `json:"attendees" validate:"omitempty,dive,email"`
}

type SendOAuthRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Message string `json:"message"`
	Email   string `json:"email" validate:"omitempty,email"`
}

type SendOAuthResponse struct {
	Sent    bool   `json:"sent"`
	Channel string `json:"channel"`
	AuthURL string `json:"auth_url"`
	Circlo  any    `json:"circlo,omitempty"`
}
