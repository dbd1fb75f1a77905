package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotCollecting is returned for a user turn outside the
	// collecting phase; a confirming session must first go through
	// ContinueEditing.
	ErrNotCollecting = errors.New("intake: session is not collecting")
	// ErrNotConfirming is returned when Confirm or ContinueEditing is
	// called before the gate is satisfied.
	ErrNotConfirming = errors.New("intake: session is not awaiting confirmation")
	// ErrTurnInFlight is returned while a previous turn or the
	// persistence call is still outstanding.
	ErrTurnInFlight = errors.New("intake: another operation is in flight")
	// ErrSessionClosed is returned when the session was cancelled or
	// already submitted.
	ErrSessionClosed = errors.New("intake: session is closed")
)

const (
	greetingText = "你好！我可以帮你快速录入客户信息。直接输入客户资料即可，我会一步步引导你。今天要添加谁？"
	fallbackText = "抱歉，我暂时无法处理这条消息，请稍后重试，或切换到表单手动填写。"
	guidanceText = "好的，请继续补充或修改客户信息，完成后我会再次为你总结确认。"
)

// Session aggregates the conversation turns, the accumulated field set
// and the gate status for one chat-driven intake flow. All state lives
// here; the rendering layer only reads through the accessors.
type Session struct {
	mu        sync.Mutex
	id        string
	schema    *Schema
	processor TurnProcessor
	creator   Creator

	turns   []Turn
	fields  FieldSet
	phase   Phase
	summary string

	busy       bool
	generation uint64
	createdID  uint64
	lastActive time.Time
}

// TurnResult is returned to the caller after a successful turn so the
// UI can render without re-reading the session.
type TurnResult struct {
	Reply   string   `json:"reply"`
	Fields  FieldSet `json:"fields"`
	Phase   Phase    `json:"phase"`
	Summary string   `json:"summary,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// NewSession creates a collecting session seeded with the assistant
// greeting. initial carries whatever the manual form already holds, so
// switching from form to chat never loses typed values.
func NewSession(schema *Schema, processor TurnProcessor, creator Creator, initial FieldSet) (*Session, error) {
	if schema == nil {
		return nil, errors.New("intake: schema is required")
	}
	if processor == nil {
		return nil, errors.New("intake: turn processor is required")
	}
	fields, err := schema.Merge(FieldSet{}, initial)
	if err != nil {
		return nil, fmt.Errorf("seed initial fields: %w", err)
	}
	greeting := newTurn(RoleAssistant, greetingText)
	greeting.seed = true
	return &Session{
		id:         uuid.New().String(),
		schema:     schema,
		processor:  processor,
		creator:    creator,
		turns:      []Turn{greeting},
		fields:     fields,
		phase:      PhaseCollecting,
		lastActive: time.Now(),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// HandleTurn runs one collection step: append the user turn, delegate
// to the turn processor, merge the extracted delta, evaluate the gate
// and append the assistant reply. On processor failure the field set
// and gate are untouched; a fallback assistant turn is appended and the
// user may simply re-submit.
func (s *Session) HandleTurn(ctx context.Context, text string) (*TurnResult, error) {
	s.mu.Lock()
	switch s.phase {
	case PhaseCollecting:
	case PhaseConfirming:
		s.mu.Unlock()
		return nil, ErrNotCollecting
	default:
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.busy {
		s.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	s.busy = true
	s.turns = append(s.turns, newTurn(RoleUser, text))
	s.lastActive = time.Now()
	history := s.extractionHistory()
	current := s.fields.Clone()
	generation := s.generation
	s.mu.Unlock()

	result, err := s.processor.Process(ctx, history, current)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.generation != generation || s.phase == PhaseCancelled {
		// The session was torn down while the call was in flight;
		// a late response must not resurrect it.
		slog.Debug("discarding late extraction result", "session", s.id)
		return nil, ErrSessionClosed
	}
	if err != nil {
		s.turns = append(s.turns, newTurn(RoleAssistant, fallbackText))
		return nil, fmt.Errorf("process turn: %w", err)
	}

	merged, err := s.schema.Merge(s.fields, result.Fields)
	if err != nil {
		s.turns = append(s.turns, newTurn(RoleAssistant, fallbackText))
		return nil, fmt.Errorf("merge extracted fields: %w", err)
	}
	s.fields = merged

	// The processor's readiness signal is the sufficiency judgement,
	// but the local mandatory check is still necessary: a processor
	// claiming readiness with required fields missing is downgraded.
	missing := s.schema.Missing(merged)
	status := result.Status
	if len(missing) > 0 {
		status = StatusCollecting
	}
	if status == StatusReady {
		s.phase = PhaseConfirming
		s.summary = s.schema.Summary(merged)
	}

	s.turns = append(s.turns, newTurn(RoleAssistant, result.Reply))
	s.lastActive = time.Now()

	return &TurnResult{
		Reply:   result.Reply,
		Fields:  merged.Clone(),
		Phase:   s.phase,
		Summary: s.summary,
		Missing: missing,
	}, nil
}

// Confirm persists the collected field set. Only legal while the
// session awaits confirmation. On failure the session stays in the
// confirming phase with fields and turns intact, so the user can
// re-confirm without re-entering anything.
func (s *Session) Confirm(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	if s.phase != PhaseConfirming {
		s.mu.Unlock()
		return 0, ErrNotConfirming
	}
	if s.busy {
		s.mu.Unlock()
		return 0, ErrTurnInFlight
	}
	if s.creator == nil {
		s.mu.Unlock()
		return 0, errors.New("intake: no creator configured")
	}
	s.busy = true
	fields := s.fields.Clone()
	generation := s.generation
	s.mu.Unlock()

	id, err := s.creator.CreateCustomer(ctx, fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.generation != generation || s.phase == PhaseCancelled {
		return 0, ErrSessionClosed
	}
	if err != nil {
		slog.Warn("intake persistence failed", "session", s.id, "err", err)
		return 0, fmt.Errorf("create customer: %w", err)
	}
	s.phase = PhaseSubmitted
	s.createdID = id
	s.lastActive = time.Now()
	return id, nil
}

// ContinueEditing returns a confirming session to collection without
// discarding any accumulated field values, and appends a guidance turn.
func (s *Session) ContinueEditing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseConfirming {
		return ErrNotConfirming
	}
	s.phase = PhaseCollecting
	s.summary = ""
	s.turns = append(s.turns, newTurn(RoleAssistant, guidanceText))
	s.lastActive = time.Now()
	return nil
}

// Cancel tears the session down. The turn history is discarded by the
// owner; Fields stays readable so the values carry over to the manual
// form.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseCancelled
	s.summary = ""
	s.generation++
	s.lastActive = time.Now()
}

// Turns returns the ordered conversation history for rendering,
// including the greeting turn.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Fields returns a copy of the current field set.
func (s *Session) Fields() FieldSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields.Clone()
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Summary returns the confirmation summary, empty unless the session
// is awaiting confirmation.
func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Missing returns the field keys still blocking confirmation.
func (s *Session) Missing() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema.Missing(s.fields)
}

// CreatedID returns the persisted customer ID after a successful
// Confirm, zero otherwise.
func (s *Session) CreatedID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createdID
}

// extractionHistory returns the turns to send to the processor, with
// the UI-only greeting filtered out. Caller holds the lock.
func (s *Session) extractionHistory() []Turn {
	out := make([]Turn, 0, len(s.turns))
	for _, t := range s.turns {
		if t.seed {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
