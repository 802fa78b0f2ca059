package service

import (
	"context"
	"encoding/json"
	"time"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/entity"
	"haruhi-agent-be/internal/pkg/logger"
	"haruhi-agent-be/internal/repository/contract"
	"haruhi-agent-be/internal/repository/unitofwork"
	"haruhi-agent-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventPublisher forwards persisted bookings to the external bus. Optional.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	forward    EventPublisher
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	forward EventPublisher,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		forward:    forward,
		logger:     logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.BookingRecordedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("BOOKING", "Failed to unmarshal booking message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // poison message, redelivery would not help
		return
	}

	booking := &entity.Booking{
		UserID:    payload.UserID,
		Kind:      payload.Kind,
		Payload:   payload.Payload,
		CreatedAt: payload.OccurredAt,
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.BookingRepository().Create(ctx, booking); err != nil {
		cs.logger.Error("BOOKING", "Failed to save booking", map[string]interface{}{
			"user_id": payload.UserID,
			"kind":    payload.Kind,
			"error":   err.Error(),
		})
		if contract.IsPermanent(err) {
			msg.Ack()
			return
		}
		msg.Nack()
		return
	}

	cs.logger.Info("BOOKING", "Booking recorded", map[string]interface{}{
		"booking_id": booking.Id.String(),
		"user_id":    booking.UserID,
		"kind":       booking.Kind,
	})
	cs.forwardEvent(ctx, booking)
	msg.Ack()
}

func (cs *consumerService) forwardEvent(ctx context.Context, booking *entity.Booking) {
	if cs.forward == nil {
		return
	}
	eventType := events.TypeItineraryBooked
	if booking.Kind == entity.BookingKindCalendarEvent {
		eventType = events.TypeCalendarEvent
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"booking_id": booking.Id.String(),
			"user_id":    booking.UserID,
			"kind":       booking.Kind,
			"payload":    booking.Payload,
		},
		OccurredAt: booking.CreatedAt,
	}
	if err := cs.forward.Publish(ctx, evt); err != nil {
		cs.logger.Warn("BOOKING", "Failed to forward booking event", map[string]interface{}{"error": err.Error()})
	}
}
