package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superxia01/crm/intake"
	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/llm/llmtest"
)

func TestGenerateScriptDecodesStructuredOutput(t *testing.T) {
	model := llmtest.NewScriptedModel(llmtest.ToolCallMessage("write_sales_script",
		`{"script":"你好，王总……","key_points":["预算匹配"],"tips":["先听后说"]}`))
	svc, err := NewAIService(model, NewCustomerService(newFakeCustomerStore()))
	require.NoError(t, err)

	out, err := svc.GenerateScript(context.Background(), &dto.GenerateScriptRequest{
		Context: "首次接触", CustomerName: "王总", Scenario: "cold_call",
	})
	require.NoError(t, err)
	assert.Equal(t, "你好，王总……", out.Script)
	assert.Equal(t, []string{"预算匹配"}, out.KeyPoints)

	// prompt carries the request details
	require.Len(t, model.Prompts, 1)
	assert.Contains(t, model.Prompts[0][1].Content, "王总")
	assert.Contains(t, model.Prompts[0][1].Content, "cold_call")
}

func TestAnalyzeCustomerFetchesRecordAndDefaultsType(t *testing.T) {
	model := llmtest.NewScriptedModel(llmtest.ToolCallMessage("record_customer_analysis",
		`{"summary":"高意向客户","intent_score":85,"risk_level":"low","recommendations":["尽快报价"]}`))
	customers := NewCustomerService(newFakeCustomerStore())
	customerID, err := customers.CreateFromFields(context.Background(), 7, intake.FieldSet{
		"name": "张三", "company": "ABC科技", "phone": "555", "budget": "¥100,000",
	})
	require.NoError(t, err)

	svc, err := NewAIService(model, customers)
	require.NoError(t, err)

	out, err := svc.AnalyzeCustomer(context.Background(), 7, &dto.AnalyzeCustomerRequest{CustomerID: customerID})
	require.NoError(t, err)
	assert.Equal(t, 85, out.IntentScore)
	assert.Equal(t, "low", out.RiskLevel)
	assert.Equal(t, "comprehensive", out.AnalysisType)

	// the fetched record, not the request, feeds the prompt
	assert.Contains(t, model.Prompts[0][1].Content, "ABC科技")
	assert.Contains(t, model.Prompts[0][1].Content, "¥100,000")
}

func TestAnalyzeCustomerUnknownCustomer(t *testing.T) {
	model := llmtest.NewScriptedModel()
	svc, err := NewAIService(model, NewCustomerService(newFakeCustomerStore()))
	require.NoError(t, err)

	_, err = svc.AnalyzeCustomer(context.Background(), 7, &dto.AnalyzeCustomerRequest{CustomerID: 99})
	assert.Error(t, err)
	assert.Empty(t, model.Prompts)
}
