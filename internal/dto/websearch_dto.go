package dto

import "haruhi-agent-be/pkg/websearch"

type WebSearchRequest struct {
	Q   string `json:"q" validate:"required"`
	Num int    `json:"num" validate:"omitempty,min=1,max=20"`
}

type WebSearchResponse struct {
	Results []websearch.Hit `json:"results"`
}
