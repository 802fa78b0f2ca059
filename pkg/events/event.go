package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	TypePlanExecuted    = "PLAN_EXECUTED"
	TypeItineraryBooked = "ITINERARY_BOOKED"
	TypeCalendarEvent   = "GCAL_EVENT_CREATED"
)

var ErrMissingType = errors.New("event type is required")

// Event defines the contract for everything published on the bus.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PLAN_EXECUTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// envelope is the wire form; type and time travel with the data so consumers
// do not have to guess them from the subject.
type envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// FromStruct flattens any JSON-serialisable value into a BaseEvent.
func FromStruct(eventType string, v any, at time.Time) (BaseEvent, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return BaseEvent{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	data := map[string]interface{}{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return BaseEvent{}, fmt.Errorf("%s payload is not an object: %w", eventType, err)
	}
	if at.IsZero() {
		at = time.Now()
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: at.UTC()}, nil
}

func Encode(e Event) ([]byte, error) {
	if e.EventType() == "" {
		return nil, ErrMissingType
	}
	return json.Marshal(envelope{Type: e.EventType(), OccurredAt: e.Timestamp(), Data: e.Payload()})
}

func Decode(raw []byte) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if env.Type == "" {
		return BaseEvent{}, ErrMissingType
	}
	return BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
