package dto

type MarketingRequest struct {
	Goal           string `json:"goal" validate:"required"`
	UserID         string `json:"user_id"`
	RegisterAgents bool   `json:"register_agents"`
}

type MarketingStep struct {
	Role string `json:"role"`
	Task string `json:"task"`
}

type MarketingResponse struct {
	Workflow []MarketingStep `json:"workflow"`
	Agents   []any           `json:"agents"`
}
