package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cloudwego/eino/components/model"
	"github.com/gin-gonic/gin"

	"github.com/superxia01/crm/intake"
	"github.com/superxia01/crm/internal/api/middleware"
	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/service"
)

// IntakeHandler hosts chat intake sessions server-side: one session
// per open chat screen, scoped to the authenticated user.
type IntakeHandler struct {
	store      *intake.Store
	customers  *service.CustomerService
	createProc intake.TurnProcessor
	editProc   intake.TurnProcessor
}

func NewIntakeHandler(chatModel model.ToolCallingChatModel, store *intake.Store, customers *service.CustomerService) (*IntakeHandler, error) {
	createProc, err := intake.NewChatTurnProcessor(chatModel, intake.CreateSchema())
	if err != nil {
		return nil, fmt.Errorf("build create processor: %w", err)
	}
	editProc, err := intake.NewChatTurnProcessor(chatModel, intake.EditSchema())
	if err != nil {
		return nil, fmt.Errorf("build edit processor: %w", err)
	}
	return &IntakeHandler{
		store:      store,
		customers:  customers,
		createProc: createProc,
		editProc:   editProc,
	}, nil
}

func sessionOwner(c *gin.Context) string {
	return strconv.FormatUint(middleware.UserID(c), 10)
}

// CreateSession opens a session. Edit mode loads the customer's
// current values so the chat starts from what is already on file;
// explicit initial values from the form take precedence.
func (h *IntakeHandler) CreateSession(c *gin.Context) {
	var req dto.CreateIntakeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID := middleware.UserID(c)

	schema := intake.CreateSchema()
	processor := h.createProc
	initial := intake.FieldSet{}
	if req.Mode == "edit" {
		if req.CustomerID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id is required for edit mode"})
			return
		}
		fields, err := h.customers.IntakeFields(c.Request.Context(), req.CustomerID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		schema = intake.EditSchema()
		processor = h.editProc
		initial = fields
	}
	for k, v := range req.Initial {
		initial[k] = v
	}

	creator := h.customers.IntakeCreator(userID, req.CustomerID)
	sess, err := intake.NewSession(schema, processor, creator, initial)
	if err != nil {
		respondError(c, err)
		return
	}
	h.store.Put(sess, sessionOwner(c))
	c.JSON(http.StatusCreated, sessionState(sess))
}

// Turn posts one user message.
func (h *IntakeHandler) Turn(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"), sessionOwner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	var req dto.IntakeTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := sess.HandleTurn(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IntakeTurnResponse{
		SessionID: sess.ID(),
		Reply:     result.Reply,
		Phase:     string(result.Phase),
		Fields:    result.Fields,
		Summary:   result.Summary,
		Missing:   result.Missing,
	})
}

// Confirm persists the collected fields.
func (h *IntakeHandler) Confirm(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"), sessionOwner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	customerID, err := sess.Confirm(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IntakeConfirmResponse{
		SessionID:  sess.ID(),
		Phase:      string(sess.Phase()),
		CustomerID: customerID,
	})
}

// ContinueEditing returns a confirming session to collection.
func (h *IntakeHandler) ContinueEditing(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"), sessionOwner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := sess.ContinueEditing(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionState(sess))
}

// Cancel tears the session down. The response still carries the
// collected fields so the client can prefill the manual form.
func (h *IntakeHandler) Cancel(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"), sessionOwner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	fields := sess.Fields()
	h.store.Delete(sess.ID())
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

// GetSession returns the renderable session state.
func (h *IntakeHandler) GetSession(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"), sessionOwner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionState(sess))
}

func sessionState(sess *intake.Session) dto.IntakeSessionResponse {
	turns := sess.Turns()
	out := make([]dto.IntakeTurn, len(turns))
	for i, t := range turns {
		out[i] = dto.IntakeTurn{ID: t.ID, Role: string(t.Role), Text: t.Text}
	}
	return dto.IntakeSessionResponse{
		SessionID: sess.ID(),
		Phase:     string(sess.Phase()),
		Turns:     out,
		Fields:    sess.Fields(),
		Summary:   sess.Summary(),
		Missing:   sess.Missing(),
		CreatedID: sess.CreatedID(),
	}
}
