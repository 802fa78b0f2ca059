package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type UserRef struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type OrchestratorRequest struct {
	Message      string  `json:"message" validate:"required"`
	User         UserRef `json:"user"`
	AutoSchedule bool    `json:"auto_schedule"`
	StartISO     string  `json:"start_iso" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndISO       string  `json:"end_iso" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	PostSummary  bool    `json:"post_summary"`
	Summarize    bool    `json:"summarize"`
}

// UserID prefers the id, then the name, then "anon".
func (r OrchestratorRequest) UserID() string {
	switch {
	case r.User.Id != "":
		return r.User.Id
	case r.User.Name != "":
		return r.User.Name
	default:
		return "anon"
	}
}

type CoordinatorRequest struct {
	Message     string  `json:"message" form:"message"`
	User        UserRef `json:"user"`
	Destination string  `json:"destination" form:"destination"`
	Area        string  `json:"area" form:"area"`
	Budget      string  `json:"budget" form:"budget"`
	Guests      int     `json:"guests" form:"guests" validate:"omitempty,min=0,max=50"`
}

// UserName prefers the name, then the id, then "Pengguna".
func (r CoordinatorRequest) UserName() string {
	switch {
	case r.User.Name != "":
		return r.User.Name
	case r.User.Id != "":
		return r.User.Id
	default:
		return "Pengguna"
	}
}

type BookingResponse struct {
	Id        uuid.UUID       `json:"id"`
	UserID    string          `json:"user_id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

type BookingListResponse struct {
	Total    int64             `json:"total"`
	Bookings []BookingResponse `json:"bookings"`
}

// BookingRecordedMessage travels on the in-process bus between the publishers
// and the consumer that persists bookings.
type BookingRecordedMessage struct {
	UserID     string          `json:"user_id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}
