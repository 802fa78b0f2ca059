package service

import "haruhi-agent-be/internal/dto"

type LLMStatus interface {
	Available() bool
	LastError() string
}

type ISystemService interface {
	Health() dto.HealthResponse
}

type systemService struct {
	llm      LLMStatus
	search   bool
	calendar ICalendarService
	circlo   bool
}

func NewSystemService(llm LLMStatus, searchProvider bool, calendar ICalendarService, circloToken bool) ISystemService {
	return &systemService{llm: llm, search: searchProvider, calendar: calendar, circlo: circloToken}
}

// Health is always "ok": every collaborator is optional and degrades on its own.
func (s *systemService) Health() dto.HealthResponse {
	res := dto.HealthResponse{
		Status:   "ok",
		Search:   s.search,
		Calendar: s.calendar != nil && s.calendar.Configured(),
		Circlo:   s.circlo,
	}
	if s.llm != nil {
		res.LLMAvailable = s.llm.Available()
		if !res.LLMAvailable {
			res.LLMError = s.llm.LastError()
		}
	}
	return res
}
