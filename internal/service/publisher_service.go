package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/entity"
	"haruhi-agent-be/pkg/travel"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return ps.publisher.Publish(ps.topicName, msg)
}

// BookingPublisher turns itineraries and created calendar events into booking
// messages; the consumer service persists them.
type BookingPublisher struct {
	publisher IPublisherService
}

func NewBookingPublisher(publisher IPublisherService) *BookingPublisher {
	return &BookingPublisher{publisher: publisher}
}

func (p *BookingPublisher) PublishItinerary(ctx context.Context, booking travel.ItineraryBooked) error {
	return p.publish(ctx, booking.UserID, entity.BookingKindItinerary, booking, booking.OccurredAt)
}

func (p *BookingPublisher) RecordEvent(ctx context.Context, userID string, event map[string]any) error {
	return p.publish(ctx, userID, entity.BookingKindCalendarEvent, event, time.Now())
}

func (p *BookingPublisher) publish(ctx context.Context, userID, kind string, payload any, at time.Time) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s booking: %w", kind, err)
	}
	msg, err := json.Marshal(dto.BookingRecordedMessage{
		UserID:     userID,
		Kind:       kind,
		Payload:    raw,
		OccurredAt: at,
	})
	if err != nil {
		return err
	}
	return p.publisher.Publish(ctx, msg)
}
