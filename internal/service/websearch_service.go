package service

import (
	"context"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/pkg/websearch"
)

const defaultSearchResults = 3

type IWebSearchService interface {
	Query(ctx context.Context, req dto.WebSearchRequest) websearch.Result
}

type Searcher interface {
	Query(ctx context.Context, q string, num int) websearch.Result
}

type webSearchService struct {
	client Searcher
}

func NewWebSearchService(client Searcher) IWebSearchService {
	return &webSearchService{client: client}
}

func (s *webSearchService) Query(ctx context.Context, req dto.WebSearchRequest) websearch.Result {
	num := req.Num
	if num <= 0 {
		num = defaultSearchResults
	}
	return s.client.Query(ctx, req.Q, num)
}
