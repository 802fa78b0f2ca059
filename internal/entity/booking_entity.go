package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	BookingKindItinerary     = "itinerary"
	BookingKindCalendarEvent = "gcal_event"
)

type Booking struct {
	Id        uuid.UUID
	UserID    string
	Kind      string
	Payload   json.RawMessage
	CreatedAt time.Time
}
