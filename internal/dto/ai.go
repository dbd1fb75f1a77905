package dto

// GenerateScriptRequest asks for a sales script tailored to a customer.
type GenerateScriptRequest struct {
	Context      string `json:"context" binding:"required"`
	CustomerName string `json:"customer_name" binding:"required"`
	Industry     string `json:"industry"`
	PainPoints   string `json:"pain_points"`
	Scenario     string `json:"scenario"` // cold_call, follow_up, presentation, objection_handling
}

// GenerateScriptResponse is the structured script output.
type GenerateScriptResponse struct {
	Script    string   `json:"script"`
	KeyPoints []string `json:"key_points"`
	Tips      []string `json:"tips"`
}

// AnalyzeCustomerRequest asks for an analysis of one customer record.
type AnalyzeCustomerRequest struct {
	CustomerID   uint64 `json:"customer_id" binding:"required"`
	AnalysisType string `json:"analysis_type"` // intent, risk, opportunity, comprehensive
}

// AnalyzeCustomerResponse is the structured analysis output.
type AnalyzeCustomerResponse struct {
	CustomerID      uint64   `json:"customer_id"`
	AnalysisType    string   `json:"analysis_type"`
	Summary         string   `json:"summary"`
	IntentScore     int      `json:"intent_score"` // 0-100
	RiskLevel       string   `json:"risk_level"`   // low, medium, high
	Opportunities   []string `json:"opportunities"`
	Recommendations []string `json:"recommendations"`
	NextActions     []string `json:"next_actions"`
}
