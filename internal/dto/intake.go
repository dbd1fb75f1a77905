package dto

// CreateIntakeSessionRequest opens a chat intake session. Mode selects
// the field schema: "create" for new customers, "edit" for existing
// ones. Initial carries whatever the manual form already holds.
type CreateIntakeSessionRequest struct {
	Mode       string            `json:"mode"`
	CustomerID uint64            `json:"customer_id"`
	Initial    map[string]string `json:"initial"`
}

// IntakeTurnRequest posts one user message to a session.
type IntakeTurnRequest struct {
	Text string `json:"text" binding:"required"`
}

// IntakeTurn is one rendered conversation message.
type IntakeTurn struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Text string `json:"text"`
}

// IntakeSessionResponse is the full renderable session state.
type IntakeSessionResponse struct {
	SessionID string            `json:"session_id"`
	Phase     string            `json:"phase"`
	Turns     []IntakeTurn      `json:"turns"`
	Fields    map[string]string `json:"fields"`
	Summary   string            `json:"summary,omitempty"`
	Missing   []string          `json:"missing,omitempty"`
	CreatedID uint64            `json:"created_id,omitempty"`
}

// IntakeTurnResponse is the incremental result of one turn.
type IntakeTurnResponse struct {
	SessionID string            `json:"session_id"`
	Reply     string            `json:"reply"`
	Phase     string            `json:"phase"`
	Fields    map[string]string `json:"fields"`
	Summary   string            `json:"summary,omitempty"`
	Missing   []string          `json:"missing,omitempty"`
}

// IntakeConfirmResponse reports the persisted customer.
type IntakeConfirmResponse struct {
	SessionID  string `json:"session_id"`
	Phase      string `json:"phase"`
	CustomerID uint64 `json:"customer_id"`
}
