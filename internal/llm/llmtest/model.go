// Package llmtest provides a scripted tool-calling chat model for
// hermetic tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ScriptedModel replays canned responses in order and records every
// prompt it receives.
type ScriptedModel struct {
	mu        sync.Mutex
	responses []*schema.Message
	err       error
	next      int

	// Prompts holds the message lists passed to Generate, in call order.
	Prompts [][]*schema.Message
}

// NewScriptedModel returns a model that answers with responses in
// order; further calls repeat the last response.
func NewScriptedModel(responses ...*schema.Message) *ScriptedModel {
	return &ScriptedModel{responses: responses}
}

// NewFailingModel returns a model whose Generate always fails.
func NewFailingModel(err error) *ScriptedModel {
	return &ScriptedModel{err: err}
}

// ToolCallMessage builds the assistant message a tool-calling model
// produces when invoking toolName with the given JSON arguments.
func ToolCallMessage(toolName, arguments string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{
				ID: "call-0",
				Function: schema.FunctionCall{
					Name:      toolName,
					Arguments: arguments,
				},
			},
		},
	}
}

func (m *ScriptedModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, input)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return nil, errors.New("llmtest: no scripted responses")
	}
	resp := m.responses[m.next]
	if m.next < len(m.responses)-1 {
		m.next++
	}
	return resp, nil
}

func (m *ScriptedModel) Stream(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("llmtest: streaming not supported")
}

func (m *ScriptedModel) WithTools(_ []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}
