package service

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/llm"
	"github.com/superxia01/crm/internal/models"
)

const scriptSystemPrompt = `You are an expert sales assistant. Generate professional sales scripts based on the provided context.
The script should be:
- Professional and friendly
- Tailored to the customer's industry and pain points
- Persuasive but not pushy
- Structured with clear sections (opening, value proposition, handling objections, closing)`

const analysisSystemPrompt = `You are an expert sales analyst. Analyze customer data and provide actionable insights.
Focus on: purchase intent, risk factors, opportunities, and specific recommendations.`

type scriptToolArgs struct {
	Script    string   `json:"script" jsonschema:"required,description=The complete sales script"`
	KeyPoints []string `json:"key_points" jsonschema:"description=3-5 key talking points"`
	Tips      []string `json:"tips" jsonschema:"description=3-5 tips for success"`
}

type analysisToolArgs struct {
	Summary         string   `json:"summary" jsonschema:"required,description=Brief summary in 2-3 sentences"`
	IntentScore     int      `json:"intent_score" jsonschema:"required,description=Purchase intent score 0-100"`
	RiskLevel       string   `json:"risk_level" jsonschema:"required,enum=low,enum=medium,enum=high"`
	Opportunities   []string `json:"opportunities" jsonschema:"description=3-5 key opportunities"`
	Recommendations []string `json:"recommendations" jsonschema:"description=3-5 specific recommendations"`
	NextActions     []string `json:"next_actions" jsonschema:"description=Concrete next steps"`
}

type analysisInput struct {
	customer     *models.Customer
	analysisType string
}

// AIService generates sales scripts and customer analyses with the
// same structured chain the intake extractor uses.
type AIService struct {
	scripts   *llm.Chain[*dto.GenerateScriptRequest, scriptToolArgs]
	analyses  *llm.Chain[analysisInput, analysisToolArgs]
	customers *CustomerService
}

func NewAIService(chatModel model.ToolCallingChatModel, customers *CustomerService) (*AIService, error) {
	scripts, err := llm.NewChain[*dto.GenerateScriptRequest, scriptToolArgs](
		chatModel, buildScriptPrompt, "write_sales_script", "Record the generated sales script.")
	if err != nil {
		return nil, fmt.Errorf("build script chain: %w", err)
	}
	analyses, err := llm.NewChain[analysisInput, analysisToolArgs](
		chatModel, buildAnalysisPrompt, "record_customer_analysis", "Record the customer analysis.")
	if err != nil {
		return nil, fmt.Errorf("build analysis chain: %w", err)
	}
	return &AIService{scripts: scripts, analyses: analyses, customers: customers}, nil
}

func buildScriptPrompt(_ context.Context, req *dto.GenerateScriptRequest) ([]*schema.Message, error) {
	user := fmt.Sprintf(`Generate a sales script with the following details:
- Customer Name: %s
- Industry: %s
- Context: %s
- Pain Points: %s
- Scenario: %s`,
		req.CustomerName, req.Industry, req.Context, req.PainPoints, req.Scenario)
	return []*schema.Message{
		schema.SystemMessage(scriptSystemPrompt),
		schema.UserMessage(user),
	}, nil
}

func buildAnalysisPrompt(_ context.Context, in analysisInput) ([]*schema.Message, error) {
	c := in.customer
	user := fmt.Sprintf(`Analyze the following customer:
- Name: %s
- Company: %s
- Position: %s
- Industry: %s
- Budget: %s
- Intent Level: %s
- Stage: %s
- Source: %s
- Contract Value: %s
- Contract Status: %s
- Probability: %d%%
- Notes: %s

Analysis Type: %s`,
		c.Name, c.Company, c.Position, c.Industry, c.Budget,
		c.IntentLevel, c.Stage, c.Source,
		c.ContractValue, c.ContractStatus, c.Probability, c.Notes,
		in.analysisType)
	return []*schema.Message{
		schema.SystemMessage(analysisSystemPrompt),
		schema.UserMessage(user),
	}, nil
}

// GenerateScript produces a structured sales script.
func (s *AIService) GenerateScript(ctx context.Context, req *dto.GenerateScriptRequest) (*dto.GenerateScriptResponse, error) {
	out, err := s.scripts.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}
	return &dto.GenerateScriptResponse{
		Script:    out.Script,
		KeyPoints: out.KeyPoints,
		Tips:      out.Tips,
	}, nil
}

// AnalyzeCustomer fetches the customer and produces a structured
// analysis.
func (s *AIService) AnalyzeCustomer(ctx context.Context, userID uint64, req *dto.AnalyzeCustomerRequest) (*dto.AnalyzeCustomerResponse, error) {
	customer, err := s.customers.Get(ctx, req.CustomerID, userID)
	if err != nil {
		return nil, err
	}
	analysisType := req.AnalysisType
	if analysisType == "" {
		analysisType = "comprehensive"
	}
	out, err := s.analyses.Invoke(ctx, analysisInput{customer: customer, analysisType: analysisType})
	if err != nil {
		return nil, fmt.Errorf("analyze customer: %w", err)
	}
	return &dto.AnalyzeCustomerResponse{
		CustomerID:      customer.ID,
		AnalysisType:    analysisType,
		Summary:         out.Summary,
		IntentScore:     out.IntentScore,
		RiskLevel:       out.RiskLevel,
		Opportunities:   out.Opportunities,
		Recommendations: out.Recommendations,
		NextActions:     out.NextActions,
	}, nil
}
