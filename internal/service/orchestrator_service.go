package service

import (
	"context"
	"io"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/repository/specification"
	"haruhi-agent-be/internal/repository/unitofwork"
	"haruhi-agent-be/pkg/travel"
)

const (
	defaultBookingPage = 20
	maxBookingPage     = 100
)

type IOrchestratorService interface {
	Execute(ctx context.Context, req dto.OrchestratorRequest) (*travel.Result, error)
	RenderHTML(w io.Writer, res *travel.Result) error
	ListBookings(ctx context.Context, userID string, limit, offset int) (*dto.BookingListResponse, error)
}

type orchestratorService struct {
	orchestrator *travel.Orchestrator
	uowFactory   unitofwork.RepositoryFactory
}

func NewOrchestratorService(orchestrator *travel.Orchestrator, uowFactory unitofwork.RepositoryFactory) IOrchestratorService {
	return &orchestratorService{
		orchestrator: orchestrator,
		uowFactory:   uowFactory,
	}
}

func (s *orchestratorService) Execute(ctx context.Context, req dto.OrchestratorRequest) (*travel.Result, error) {
	return s.orchestrator.Execute(ctx, travel.Request{
		Message:      req.Message,
		UserID:       req.UserID(),
		AutoSchedule: req.AutoSchedule,
		StartISO:     req.StartISO,
		EndISO:       req.EndISO,
		PostSummary:  req.PostSummary,
		Summarize:    req.Summarize,
	})
}

func (s *orchestratorService) RenderHTML(w io.Writer, res *travel.Result) error {
	return travel.RenderHTML(w, res)
}

func (s *orchestratorService) ListBookings(ctx context.Context, userID string, limit, offset int) (*dto.BookingListResponse, error) {
	if limit <= 0 {
		limit = defaultBookingPage
	}
	if limit > maxBookingPage {
		limit = maxBookingPage
	}
	if offset < 0 {
		offset = 0
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).BookingRepository()
	filter := specification.ByUserID{UserID: userID}

	total, err := repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	bookings, err := repo.FindAll(ctx,
		filter,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.BookingListResponse{Total: total, Bookings: make([]dto.BookingResponse, 0, len(bookings))}
	for _, b := range bookings {
		res.Bookings = append(res.Bookings, dto.BookingResponse{
			Id:        b.Id,
			UserID:    b.UserID,
			Kind:      b.Kind,
			Payload:   b.Payload,
			CreatedAt: b.CreatedAt,
		})
	}
	return res, nil
}
