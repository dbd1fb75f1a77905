// Package llm provides a typed structured-output chain on top of a
// tool-calling chat model: the model is forced to call a single tool
// whose arguments decode into the output type.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// PromptBuilder turns the typed input into the message list sent to
// the model.
type PromptBuilder[TInput any] func(ctx context.Context, input TInput) ([]*schema.Message, error)

// Chain binds a chat model, a prompt builder and an output schema
// derived from TOutput's struct tags.
type Chain[TInput, TOutput any] struct {
	promptBuilder PromptBuilder[TInput]
	chatModel     model.ToolCallingChatModel
	toolInfo      *schema.ToolInfo
}

// NewChain infers the tool schema from TOutput and returns a ready
// chain.
func NewChain[TInput, TOutput any](
	chatModel model.ToolCallingChatModel,
	promptBuilder PromptBuilder[TInput],
	toolName string,
	toolDesc string,
) (*Chain[TInput, TOutput], error) {
	toolInfo, err := utils.GoStruct2ToolInfo[TOutput](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("infer tool info: %w", err)
	}
	return &Chain[TInput, TOutput]{
		promptBuilder: promptBuilder,
		chatModel:     chatModel,
		toolInfo:      toolInfo,
	}, nil
}

// Invoke builds the prompt, calls the model with the tool choice
// forced, and decodes the tool arguments into TOutput. Models that
// answer in plain text with a fenced JSON block instead of a tool call
// are tolerated.
func (c *Chain[TInput, TOutput]) Invoke(ctx context.Context, input TInput) (*TOutput, error) {
	messages, err := c.promptBuilder(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	response, err := c.chatModel.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{c.toolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, c.toolInfo.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("call model: %w", err)
	}

	raw, err := extractArguments(response, c.toolInfo.Name)
	if err != nil {
		return nil, err
	}

	var result TOutput
	if err := sonic.UnmarshalString(raw, &result); err != nil {
		slog.Debug("tool arguments failed to decode", "tool", c.toolInfo.Name, "err", err)
		return nil, fmt.Errorf("decode tool arguments: %w", err)
	}
	return &result, nil
}

func extractArguments(msg *schema.Message, toolName string) (string, error) {
	for _, tc := range msg.ToolCalls {
		if tc.Function.Name == toolName || tc.Function.Name == "" {
			return tc.Function.Arguments, nil
		}
	}
	if raw := fencedJSON(msg.Content); raw != "" {
		return raw, nil
	}
	return "", fmt.Errorf("no %s tool call in model response", toolName)
}

// fencedJSON pulls the payload out of a ```json ... ``` block, or
// returns the content itself when it already looks like a JSON object.
func fencedJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "{") && strings.HasSuffix(content, "}") {
		return content
	}
	start := strings.Index(content, "```json")
	offset := 7
	if start == -1 {
		start = strings.Index(content, "```")
		offset = 3
	}
	if start == -1 {
		return ""
	}
	rest := content[start+offset:]
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
