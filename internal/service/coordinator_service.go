package service

import (
	"context"
	"io"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/pkg/travel"
)

type ICoordinatorService interface {
	Plan(ctx context.Context, req dto.CoordinatorRequest) travel.CoordinatorPage
	RenderHTML(w io.Writer, page travel.CoordinatorPage) error
}

type coordinatorService struct {
	coordinator *travel.Coordinator
}

func NewCoordinatorService(coordinator *travel.Coordinator) ICoordinatorService {
	return &coordinatorService{coordinator: coordinator}
}

func (s *coordinatorService) Plan(ctx context.Context, req dto.CoordinatorRequest) travel.CoordinatorPage {
	return s.coordinator.Plan(ctx, travel.CoordinatorRequest{
		Message:     req.Message,
		UserName:    req.UserName(),
		Destination: req.Destination,
		Area:        req.Area,
		Budget:      req.Budget,
		Guests:      req.Guests,
	})
}

func (s *coordinatorService) RenderHTML(w io.Writer, page travel.CoordinatorPage) error {
	return travel.RenderCoordinatorHTML(w, page)
}
