package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superxia01/crm/intake"
	"github.com/superxia01/crm/internal/api/handler"
	"github.com/superxia01/crm/internal/auth"
	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/llm/llmtest"
	"github.com/superxia01/crm/internal/models"
	"github.com/superxia01/crm/internal/repository"
	"github.com/superxia01/crm/internal/service"
)

type memCustomerStore struct {
	nextID    uint64
	customers map[uint64]*models.Customer
}

func newMemCustomerStore() *memCustomerStore {
	return &memCustomerStore{nextID: 1, customers: map[uint64]*models.Customer{}}
}

func (f *memCustomerStore) Create(_ context.Context, c *models.Customer) error {
	c.ID = f.nextID
	f.nextID++
	clone := *c
	f.customers[c.ID] = &clone
	return nil
}

func (f *memCustomerStore) FindByID(_ context.Context, id, userID uint64) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *memCustomerStore) List(_ context.Context, userID uint64, _ *dto.CustomerQuery) ([]*models.Customer, int64, error) {
	var out []*models.Customer
	for _, c := range f.customers {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (f *memCustomerStore) ListArchived(_ context.Context, _ uint64, _ *dto.CustomerQuery) ([]*models.Customer, int64, error) {
	return nil, 0, nil
}

func (f *memCustomerStore) Update(_ context.Context, c *models.Customer) error {
	if _, ok := f.customers[c.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *c
	f.customers[c.ID] = &clone
	return nil
}

func (f *memCustomerStore) Archive(_ context.Context, id, _ uint64) error {
	delete(f.customers, id)
	return nil
}

func (f *memCustomerStore) Restore(_ context.Context, _, _ uint64) error { return nil }

func (f *memCustomerStore) IncrementFollowUp(_ context.Context, id, _ uint64) error {
	if c, ok := f.customers[id]; ok {
		c.FollowUpCount++
	}
	return nil
}

type fixture struct {
	router    *gin.Engine
	token     string
	customers *memCustomerStore
}

func newFixture(t *testing.T, model *llmtest.ScriptedModel) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	token, err := tokens.Sign(7)
	require.NoError(t, err)

	store := newMemCustomerStore()
	customerSvc := service.NewCustomerService(store)
	intakeHandler, err := handler.NewIntakeHandler(model, intake.NewStore(time.Minute), customerSvc)
	require.NoError(t, err)

	router := NewRouter(tokens, Handlers{
		Auth:      &handler.AuthHandler{},
		Customers: handler.NewCustomerHandler(customerSvc),
		Intake:    intakeHandler,
	})
	return &fixture{router: router, token: token, customers: store}
}

func (f *fixture) do(t *testing.T, method, path, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestIntakeFlowOverHTTP(t *testing.T) {
	model := llmtest.NewScriptedModel(
		llmtest.ToolCallMessage("record_intake_turn",
			`{"reply":"请问联系方式是什么？","status":"collecting","fields":{"name":"张三","company":"ABC科技"}}`),
		llmtest.ToolCallMessage("record_intake_turn",
			`{"reply":"信息齐全，请确认。","status":"ready_for_confirmation","fields":{"phone":"13800138000"}}`),
	)
	f := newFixture(t, model)

	var created dto.IntakeSessionResponse
	rec := f.do(t, http.MethodPost, "/api/v1/intake/sessions", `{}`, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "collecting", created.Phase)
	require.Len(t, created.Turns, 1) // the greeting
	assert.Equal(t, "assistant", created.Turns[0].Role)

	base := "/api/v1/intake/sessions/" + created.SessionID

	var turn dto.IntakeTurnResponse
	rec = f.do(t, http.MethodPost, base+"/turns", `{"text":"我叫张三，ABC科技的"}`, &turn)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "collecting", turn.Phase)
	assert.Equal(t, "张三", turn.Fields["name"])
	assert.Contains(t, turn.Missing, "phone|email|wechat_id")

	rec = f.do(t, http.MethodPost, base+"/turns", `{"text":"电话13800138000"}`, &turn)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirming", turn.Phase)
	assert.NotEmpty(t, turn.Summary)
	assert.Equal(t, "ABC科技", turn.Fields["company"]) // earlier values preserved

	var confirm dto.IntakeConfirmResponse
	rec = f.do(t, http.MethodPost, base+"/confirm", ``, &confirm)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "submitted", confirm.Phase)

	saved := f.customers.customers[confirm.CustomerID]
	require.NotNil(t, saved)
	assert.Equal(t, "张三", saved.Name)
	assert.Equal(t, "Chat", saved.Source)
	assert.Equal(t, "Medium", saved.IntentLevel) // default applied on create
}

func TestIntakeTurnRejectedWhileConfirming(t *testing.T) {
	model := llmtest.NewScriptedModel(
		llmtest.ToolCallMessage("record_intake_turn",
			`{"reply":"请确认","status":"ready_for_confirmation","fields":{"name":"Jane","company":"Acme","phone":"555"}}`),
	)
	f := newFixture(t, model)

	var created dto.IntakeSessionResponse
	f.do(t, http.MethodPost, "/api/v1/intake/sessions", `{}`, &created)
	base := "/api/v1/intake/sessions/" + created.SessionID

	rec := f.do(t, http.MethodPost, base+"/turns", `{"text":"Jane, Acme, 555"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// turns are illegal while awaiting confirmation
	rec = f.do(t, http.MethodPost, base+"/turns", `{"text":"more"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// continue-editing reopens collection and keeps the fields
	var state dto.IntakeSessionResponse
	rec = f.do(t, http.MethodPost, base+"/continue", ``, &state)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "collecting", state.Phase)
	assert.Equal(t, "Jane", state.Fields["name"])
}

func TestIntakeCancelReturnsFieldsForFormPrefill(t *testing.T) {
	model := llmtest.NewScriptedModel(
		llmtest.ToolCallMessage("record_intake_turn",
			`{"reply":"好的","status":"collecting","fields":{"name":"Jane"}}`),
	)
	f := newFixture(t, model)

	var created dto.IntakeSessionResponse
	f.do(t, http.MethodPost, "/api/v1/intake/sessions", `{}`, &created)
	base := "/api/v1/intake/sessions/" + created.SessionID
	f.do(t, http.MethodPost, base+"/turns", `{"text":"Jane"}`, nil)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	rec := f.do(t, http.MethodDelete, base, ``, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jane", resp.Fields["name"])

	rec = f.do(t, http.MethodGet, base, ``, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIntakeEditSessionSeedsFromStoredCustomer(t *testing.T) {
	model := llmtest.NewScriptedModel()
	f := newFixture(t, model)

	var customer models.Customer
	rec := f.do(t, http.MethodPost, "/api/v1/customers",
		`{"name":"Jane","company":"Acme","phone":"555"}`, &customer)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created dto.IntakeSessionResponse
	rec = f.do(t, http.MethodPost, "/api/v1/intake/sessions",
		`{"mode":"edit","customer_id":1}`, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Jane", created.Fields["name"])
	assert.Equal(t, "555", created.Fields["phone"])
}

func TestRoutesRequireToken(t *testing.T) {
	f := newFixture(t, llmtest.NewScriptedModel())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
