// Package intake implements the conversational customer-intake engine:
// a chat-driven flow that extracts structured customer fields from
// free-text turns, merges them into a running field set, and gates
// persistence behind an explicit user confirmation.
package intake

import (
	"context"

	"github.com/google/uuid"
)

// Role 对话消息的角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Phase 会话所处阶段
type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseConfirming Phase = "confirming"
	PhaseSubmitted  Phase = "submitted"
	PhaseCancelled  Phase = "cancelled"
)

// Status is the turn processor's judgement of whether enough
// information has been collected to ask the user for confirmation.
type Status string

const (
	StatusCollecting Status = "collecting"
	StatusReady      Status = "ready_for_confirmation"
)

// Turn is one message in the conversation history.
type Turn struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`

	// seed marks the UI greeting turn. It frames the conversation for
	// the user but is never sent to the extraction model.
	seed bool
}

func newTurn(role Role, text string) Turn {
	return Turn{ID: uuid.New().String(), Role: role, Text: text}
}

// FieldSet maps schema field keys to their current string values.
type FieldSet map[string]string

// Clone returns an independent copy. A nil FieldSet clones to an
// empty, writable one.
func (f FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// ExtractionResult is what the turn processor returns for one user turn:
// the assistant-facing reply, the partial field delta it extracted, and
// its completeness judgement.
type ExtractionResult struct {
	Reply  string   `json:"reply"`
	Fields FieldSet `json:"extracted_fields"`
	Status Status   `json:"status"`
}

// TurnProcessor delegates a conversation turn to the extraction
// collaborator. history never contains the seed greeting turn.
type TurnProcessor interface {
	Process(ctx context.Context, history []Turn, current FieldSet) (*ExtractionResult, error)
}

// Creator persists a completed field set as a customer record and
// returns the new record's ID.
type Creator interface {
	CreateCustomer(ctx context.Context, fields FieldSet) (uint64, error)
}

// CreatorFunc adapts a function to the Creator interface, e.g. to bind
// request-scoped state such as the owning user.
type CreatorFunc func(ctx context.Context, fields FieldSet) (uint64, error)

func (f CreatorFunc) CreateCustomer(ctx context.Context, fields FieldSet) (uint64, error) {
	return f(ctx, fields)
}
