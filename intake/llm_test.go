package intake

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/superxia01/crm/internal/llm/llmtest"
)

func TestChatTurnProcessorDecodesToolCall(t *testing.T) {
	model := llmtest.NewScriptedModel(llmtest.ToolCallMessage(intakeToolName,
		`{"reply":"公司名称是什么？","status":"collecting","fields":{"name":"张三"}}`))
	proc, err := NewChatTurnProcessor(model, CreateSchema())
	if err != nil {
		t.Fatalf("NewChatTurnProcessor failed: %v", err)
	}

	history := []Turn{newTurn(RoleUser, "我叫张三")}
	res, err := proc.Process(context.Background(), history, FieldSet{})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Reply != "公司名称是什么？" {
		t.Errorf("reply = %q", res.Reply)
	}
	if res.Status != StatusCollecting {
		t.Errorf("status = %s, want collecting", res.Status)
	}
	if res.Fields["name"] != "张三" {
		t.Errorf("fields = %v", res.Fields)
	}
}

func TestChatTurnProcessorPromptCarriesHistoryAndFields(t *testing.T) {
	model := llmtest.NewScriptedModel(llmtest.ToolCallMessage(intakeToolName,
		`{"reply":"好的","status":"collecting"}`))
	proc, _ := NewChatTurnProcessor(model, CreateSchema())

	history := []Turn{
		newTurn(RoleUser, "我叫张三"),
		newTurn(RoleAssistant, "公司名称是什么？"),
		newTurn(RoleUser, "ABC科技"),
	}
	if _, err := proc.Process(context.Background(), history, FieldSet{"name": "张三"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	prompt := model.Prompts[0]
	if len(prompt) != 4 {
		t.Fatalf("prompt has %d messages, want system + 3 turns", len(prompt))
	}
	if prompt[0].Role != schema.System {
		t.Errorf("first message role = %s, want system", prompt[0].Role)
	}
	if !strings.Contains(prompt[0].Content, `"name":"张三"`) {
		t.Errorf("system prompt missing current fields:\n%s", prompt[0].Content)
	}
	if prompt[1].Role != schema.User || prompt[2].Role != schema.Assistant || prompt[3].Role != schema.User {
		t.Errorf("history roles mismapped: %s %s %s", prompt[1].Role, prompt[2].Role, prompt[3].Role)
	}
	if prompt[3].Content != "ABC科技" {
		t.Errorf("last user message = %q", prompt[3].Content)
	}
}

func TestChatTurnProcessorNormalizesUnknownStatus(t *testing.T) {
	model := llmtest.NewScriptedModel(llmtest.ToolCallMessage(intakeToolName,
		`{"reply":"好的","status":"done","fields":{}}`))
	proc, _ := NewChatTurnProcessor(model, CreateSchema())

	res, err := proc.Process(context.Background(), nil, FieldSet{})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Status != StatusCollecting {
		t.Errorf("status = %s, want collecting for unknown values", res.Status)
	}
}

func TestChatTurnProcessorToleratesFencedJSONReply(t *testing.T) {
	content := "```json\n{\"reply\":\"请确认\",\"status\":\"ready_for_confirmation\",\"fields\":{\"phone\":\"555\"}}\n```"
	model := llmtest.NewScriptedModel(&schema.Message{Role: schema.Assistant, Content: content})
	proc, _ := NewChatTurnProcessor(model, CreateSchema())

	res, err := proc.Process(context.Background(), nil, FieldSet{})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Status != StatusReady {
		t.Errorf("status = %s, want ready_for_confirmation", res.Status)
	}
	if res.Fields["phone"] != "555" {
		t.Errorf("fields = %v", res.Fields)
	}
}

func TestChatTurnProcessorPropagatesModelFailure(t *testing.T) {
	model := llmtest.NewFailingModel(errors.New("provider down"))
	proc, _ := NewChatTurnProcessor(model, CreateSchema())

	if _, err := proc.Process(context.Background(), nil, FieldSet{}); err == nil {
		t.Fatal("expected an error from the failing model")
	}
}
