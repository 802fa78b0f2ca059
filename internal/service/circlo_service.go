package service

import (
	"context"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/pkg/circlo"
)

// CircloAPI is the subset of the Circlo client the proxy routes use.
type CircloAPI interface {
	GetUserPreferences(ctx context.Context, userID string) circlo.Response
	GetAllUserPreferences(ctx context.Context, page, limit int) circlo.Response
	GetPostsByKeywords(ctx context.Context, keywords string, page, limit int) circlo.Response
	CreatePost(ctx context.Context, post circlo.Post) circlo.Response
	CreateAgent(ctx context.Context, profile any) circlo.Response
	BaseURL() string
}

type ICircloService interface {
	UserPreferences(ctx context.Context, userID string) circlo.Response
	ListUserPreferences(ctx context.Context, page, limit int) circlo.Response
	PostsByKeywords(ctx context.Context, keywords string, page, limit int) circlo.Response
	CreatePost(ctx context.Context, post circlo.Post) circlo.Response
	CreateAgent(ctx context.Context, profile map[string]any) circlo.Response
	Debug(ctx context.Context) dto.CircloDebugResponse
}

type circloService struct {
	client CircloAPI
	token  string
}

func NewCircloService(client CircloAPI, token string) ICircloService {
	return &circloService{client: client, token: circlo.NormalizeToken(token)}
}

func (s *circloService) UserPreferences(ctx context.Context, userID string) circlo.Response {
	return s.client.GetUserPreferences(ctx, userID)
}

func (s *circloService) ListUserPreferences(ctx context.Context, page, limit int) circlo.Response {
	return s.client.GetAllUserPreferences(ctx, clampPage(page), clampLimit(limit))
}

func (s *circloService) PostsByKeywords(ctx context.Context, keywords string, page, limit int) circlo.Response {
	return s.client.GetPostsByKeywords(ctx, keywords, clampPage(page), clampLimit(limit))
}

func (s *circloService) CreatePost(ctx context.Context, post circlo.Post) circlo.Response {
	return s.client.CreatePost(ctx, post)
}

func (s *circloService) CreateAgent(ctx context.Context, profile map[string]any) circlo.Response {
	return s.client.CreateAgent(ctx, profile)
}

// Debug shows whether a token is configured (masked) and the outcome of a
// one-item upstream call made with it.
func (s *circloService) Debug(ctx context.Context) dto.CircloDebugResponse {
	res := dto.CircloDebugResponse{
		BaseURL:  s.client.BaseURL(),
		Upstream: s.client.GetAllUserPreferences(ctx, 1, 1),
	}
	if s.token != "" {
		masked := circlo.MaskToken(s.token)
		res.TokenMasked = &masked
	}
	return res
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampLimit(limit int) int {
	switch {
	case limit < 1:
		return 10
	case limit > 100:
		return 100
	default:
		return limit
	}
}
