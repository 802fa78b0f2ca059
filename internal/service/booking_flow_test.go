package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"haruhi-agent-be/internal/entity"
	"haruhi-agent-be/internal/pkg/logger"
	"haruhi-agent-be/internal/repository/contract"
	"haruhi-agent-be/internal/repository/memory"
	"haruhi-agent-be/internal/repository/specification"
	"haruhi-agent-be/internal/repository/unitofwork"
	"haruhi-agent-be/pkg/agent"
	"haruhi-agent-be/pkg/events"
	"haruhi-agent-be/pkg/travel"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBus struct {
	events chan events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) error {
	b.events <- e
	return nil
}

func TestBookingsFlowThroughTheBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	store := memory.NewStore()
	uowFactory := memory.NewRepositoryFactory(store)
	bus := &recordingBus{events: make(chan events.Event, 4)}

	consumer := NewConsumerService(pubSub, "BOOKING_RECORDED", uowFactory, bus, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewBookingPublisher(NewPublisherService("BOOKING_RECORDED", pubSub))
	require.NoError(t, publisher.PublishItinerary(ctx, travel.ItineraryBooked{
		UserID:      "u1",
		Destination: "Ubud",
		When:        "soon",
		OccurredAt:  time.Now(),
	}))
	require.NoError(t, publisher.RecordEvent(ctx, "u1", map[string]any{"id": "evt-1"}))

	var got []events.Event
	for len(got) < 2 {
		select {
		case e := <-bus.events:
			got = append(got, e)
		case <-time.After(2 * time.Second):
			t.Fatal("bookings were not consumed")
		}
	}
	// gochannel delivers each message on its own goroutine
	assert.ElementsMatch(t,
		[]string{events.TypeItineraryBooked, events.TypeCalendarEvent},
		[]string{got[0].EventType(), got[1].EventType()},
	)

	repo := uowFactory.NewUnitOfWork(ctx).BookingRepository()
	n, err := repo.Count(ctx, specification.ByUserID{UserID: "u1"}, specification.ByKind{Kind: entity.BookingKindCalendarEvent})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	svc := NewOrchestratorService(travel.NewOrchestrator(nil, nil), uowFactory)
	list, err := svc.ListBookings(ctx, "u1", 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	assert.Len(t, list.Bookings, 2)
}

type failingBookings struct {
	contract.BookingRepository
	err   error
	calls atomic.Int32
}

func (f *failingBookings) Create(_ context.Context, _ *entity.Booking) error {
	f.calls.Add(1)
	return f.err
}

type failingUnitOfWork struct {
	unitofwork.UnitOfWork
	bookings *failingBookings
}

func (u failingUnitOfWork) BookingRepository() contract.BookingRepository { return u.bookings }

type failingFactory struct {
	bookings *failingBookings
}

func (f failingFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return failingUnitOfWork{bookings: f.bookings}
}

func TestConsumer_AcksPermanentStoreErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// publish returns only once the consumer acked; a nack would redeliver forever
	pubSub := gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, watermill.NopLogger{})
	defer pubSub.Close()

	bookings := &failingBookings{err: fmt.Errorf("%w: bookings", contract.ErrSchemaMissing)}
	consumer := NewConsumerService(pubSub, "BOOKING_RECORDED", failingFactory{bookings: bookings}, nil, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewBookingPublisher(NewPublisherService("BOOKING_RECORDED", pubSub))
	done := make(chan error, 1)
	go func() {
		done <- publisher.RecordEvent(ctx, "u1", map[string]any{"id": "evt-1"})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("message was not acknowledged")
	}
	assert.EqualValues(t, 1, bookings.calls.Load())
}

func TestAuditService_LogsAndPublishes(t *testing.T) {
	bus := &recordingBus{events: make(chan events.Event, 1)}
	sink := NewAuditService(logger.NewNopLogger(), bus)

	err := sink.PlanExecuted(context.Background(), agent.PlanExecuted{
		RunID:  "run-1",
		UserID: "u1",
		Records: []agent.ExecutionRecord{
			{Step: agent.Step{Action: agent.ActionSearchExperts}, Result: agent.StepResult{Action: agent.ActionSearchExperts, OK: true}},
		},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	e := <-bus.events
	assert.Equal(t, events.TypePlanExecuted, e.EventType())
	assert.Equal(t, "run-1", e.Payload()["run_id"])

	assert.NoError(t, NewAuditService(logger.NewNopLogger(), nil).PlanExecuted(context.Background(), agent.PlanExecuted{}))
}
