package http

// Envelope wraps every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// CreateDecisionRequest is the request body for POST /api/v1/decisions.
// Type defaults to "important" when omitted.
type CreateDecisionRequest struct {
	Description      string   `json:"description"`
	Type             string   `json:"type"`
	RationalAnalysis string   `json:"rational_analysis"`
	EmotionalFactors []string `json:"emotional_factors"`
	AIWarning        string   `json:"ai_warning"`
}

// UpdateStatusRequest is the request body for POST /api/v1/decisions/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// CompleteRequest is the request body for POST /api/v1/decisions/:id/complete.
type CompleteRequest struct {
	Result       string `json:"result"`
	FinalOutcome string `json:"final_outcome"`
	Lessons      string `json:"lessons"`
}

// RiskCheckRequest is the request body for POST /api/v1/risk-check.
type RiskCheckRequest struct {
	Description string `json:"description"`
	PersonaPath string `json:"persona_path"`
}

// WeeklyReportRequest is the request body for POST /api/v1/reports/weekly.
type WeeklyReportRequest struct {
	Week        int    `json:"week"`
	PersonaPath string `json:"persona_path"`
}
