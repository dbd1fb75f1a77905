package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/superxia01/crm/internal/llm"
)

const (
	intakeToolName        = "record_intake_turn"
	intakeToolDescription = "Record the outcome of one customer-intake conversation turn: the reply shown to the user, the fields extracted from the user's latest input, and whether enough information has been collected."
)

const intakeSystemPrompt = `你是「新建客户」助手，帮助用户快速完成客户信息录入。

【必填项】姓名(name)、公司(company)
【联系方式至少填一个】电话(phone)、邮箱(email)、微信号(wechat_id) - 三选一即可
【选填项】%s

【工作流程】
1. 用简短友好的中文引导用户，优先收集：姓名、公司、联系方式（电话/邮箱/微信号任选其一）
2. 用户可能一次性说多条信息（如"张三，ABC科技公司，微信abc123"），请准确提取到对应字段
3. 支持修改和补充：用户可以说"把姓名改成李四"、"电话错了，应该是13900139000"，请正确更新对应字段
4. 只提取用户明确给出的信息，未提到的字段不要输出
5. 当必填项和至少一种联系方式都收集完成后，将 status 置为 ready_for_confirmation，并在回复中请用户确认

每一轮都必须调用 %s 工具上报结果。`

type turnPromptInput struct {
	history []Turn
	current FieldSet
}

type turnToolArgs struct {
	Reply  string            `json:"reply" jsonschema:"required,description=简短友好的中文回复，引导用户补全剩余信息或请用户确认"`
	Status string            `json:"status" jsonschema:"required,enum=collecting,enum=ready_for_confirmation,description=信息是否已收集完整"`
	Fields map[string]string `json:"fields,omitempty" jsonschema:"description=本轮从用户输入中提取到的字段，键必须来自字段列表"`
}

// ChatTurnProcessor is the LLM-backed turn processor: one forced tool
// call per turn returns the reply, the field delta and the readiness
// judgement.
type ChatTurnProcessor struct {
	schema *Schema
	chain  *llm.Chain[turnPromptInput, turnToolArgs]
}

// NewChatTurnProcessor binds the processor to a chat model and a field
// schema.
func NewChatTurnProcessor(chatModel model.ToolCallingChatModel, fieldSchema *Schema) (*ChatTurnProcessor, error) {
	p := &ChatTurnProcessor{schema: fieldSchema}
	chain, err := llm.NewChain[turnPromptInput, turnToolArgs](
		chatModel,
		p.buildPrompt,
		intakeToolName,
		intakeToolDescription,
	)
	if err != nil {
		return nil, fmt.Errorf("build intake chain: %w", err)
	}
	p.chain = chain
	return p, nil
}

// Process implements TurnProcessor.
func (p *ChatTurnProcessor) Process(ctx context.Context, history []Turn, current FieldSet) (*ExtractionResult, error) {
	out, err := p.chain.Invoke(ctx, turnPromptInput{history: history, current: current})
	if err != nil {
		return nil, fmt.Errorf("intake turn: %w", err)
	}
	status := Status(out.Status)
	if status != StatusReady {
		status = StatusCollecting
	}
	return &ExtractionResult{
		Reply:  strings.TrimSpace(out.Reply),
		Fields: FieldSet(out.Fields),
		Status: status,
	}, nil
}

func (p *ChatTurnProcessor) buildPrompt(_ context.Context, input turnPromptInput) ([]*schema.Message, error) {
	currentJSON, err := sonic.Marshal(input.current)
	if err != nil {
		return nil, fmt.Errorf("marshal current fields: %w", err)
	}

	system := fmt.Sprintf(intakeSystemPrompt, p.optionalFieldList(), intakeToolName)
	system += "\n\n【当前已收集的字段】\n" + string(currentJSON)

	messages := make([]*schema.Message, 0, len(input.history)+1)
	messages = append(messages, schema.SystemMessage(system))
	for _, t := range input.history {
		switch t.Role {
		case RoleUser:
			messages = append(messages, schema.UserMessage(t.Text))
		case RoleAssistant:
			messages = append(messages, schema.AssistantMessage(t.Text, nil))
		}
	}
	return messages, nil
}

func (p *ChatTurnProcessor) optionalFieldList() string {
	var sb strings.Builder
	for _, key := range p.schema.Keys() {
		switch key {
		case "name", "company", "phone", "email", "wechat_id":
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("、")
		}
		sb.WriteString(p.schema.Label(key))
		sb.WriteString("(")
		sb.WriteString(key)
		sb.WriteString(")")
	}
	return sb.String()
}
