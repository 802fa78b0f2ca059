package dto

import (
	"haruhi-agent-be/pkg/agent"
	"haruhi-agent-be/pkg/travel"
)

// HookRequest accepts both the JSON body and the browser form.
type HookRequest struct {
	Message string `json:"message" form:"message" validate:"required,max=4000"`
	UserID  string `json:"user_id" form:"user_id" validate:"omitempty,max=128"`
	Area    string `json:"area" form:"area"`
	Budget  string `json:"budget" form:"budget"`
	Guests  int    `json:"guests" form:"guests" validate:"omitempty,min=0,max=50"`
}

// WantsOffers reports whether the form carried any hotel filter.
func (r HookRequest) WantsOffers() bool {
	return r.Area != "" || r.Budget != "" || r.Guests > 0
}

type HookResponse struct {
	RunID    string                  `json:"run_id,omitempty"`
	Response string                  `json:"response"`
	Details  []agent.ExecutionRecord `json:"details,omitempty"`
	Notice   string                  `json:"notice,omitempty"`
	Offers   *travel.CoordinatorPage `json:"-"`
}
