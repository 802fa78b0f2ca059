package dto

type CircloDebugResponse struct {
	TokenMasked *string `json:"token_masked"`
	BaseURL     string  `json:"base_url"`
	Upstream    any     `json:"upstream"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	LLMAvailable bool   `json:"llm_available"`
	LLMError     string `json:"llm_error,omitempty"`
	Search       bool   `json:"search_provider"`
	Calendar     bool   `json:"calendar_configured"`
	Circlo       bool   `json:"circlo_token"`
}
