package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/superxia01/crm/internal/llm/llmtest"
)

type echoOutput struct {
	Answer string `json:"answer" jsonschema:"required,description=The answer"`
	Score  int    `json:"score,omitempty" jsonschema:"description=Confidence 0-100"`
}

func promptFromString(_ context.Context, input string) ([]*schema.Message, error) {
	return []*schema.Message{schema.UserMessage(input)}, nil
}

func TestChainDecodesForcedToolCall(t *testing.T) {
	model := llmtest.NewScriptedModel(llmtest.ToolCallMessage("echo", `{"answer":"42","score":99}`))
	chain, err := NewChain[string, echoOutput](model, promptFromString, "echo", "Echo the answer.")
	if err != nil {
		t.Fatalf("NewChain failed: %v", err)
	}

	out, err := chain.Invoke(context.Background(), "what is the answer?")
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if out.Answer != "42" || out.Score != 99 {
		t.Errorf("out = %+v", out)
	}
	if len(model.Prompts) != 1 || model.Prompts[0][0].Content != "what is the answer?" {
		t.Errorf("prompt not forwarded: %+v", model.Prompts)
	}
}

func TestChainFallsBackToFencedJSONContent(t *testing.T) {
	model := llmtest.NewScriptedModel(&schema.Message{
		Role:    schema.Assistant,
		Content: "思考过程……\n```json\n{\"answer\":\"fenced\"}\n```",
	})
	chain, _ := NewChain[string, echoOutput](model, promptFromString, "echo", "Echo.")

	out, err := chain.Invoke(context.Background(), "q")
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if out.Answer != "fenced" {
		t.Errorf("answer = %q", out.Answer)
	}
}

func TestChainRejectsPlainTextResponse(t *testing.T) {
	model := llmtest.NewScriptedModel(&schema.Message{Role: schema.Assistant, Content: "sorry, no"})
	chain, _ := NewChain[string, echoOutput](model, promptFromString, "echo", "Echo.")

	if _, err := chain.Invoke(context.Background(), "q"); err == nil {
		t.Fatal("expected an error for a response without tool call or JSON")
	}
}

func TestChainPropagatesModelError(t *testing.T) {
	model := llmtest.NewFailingModel(errors.New("rate limited"))
	chain, _ := NewChain[string, echoOutput](model, promptFromString, "echo", "Echo.")

	if _, err := chain.Invoke(context.Background(), "q"); err == nil {
		t.Fatal("expected model error to propagate")
	}
}

func TestFencedJSONExtraction(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"prefix ```\n{\"a\":1}\n``` suffix", "{\"a\":1}"},
		{"no json here", ""},
		{"``` unterminated", ""},
	}
	for _, c := range cases {
		if got := fencedJSON(c.in); got != c.want {
			t.Errorf("fencedJSON(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
