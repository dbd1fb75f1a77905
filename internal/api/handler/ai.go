package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superxia01/crm/internal/api/middleware"
	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/service"
)

type AIHandler struct {
	ai *service.AIService
}

func NewAIHandler(ai *service.AIService) *AIHandler {
	return &AIHandler{ai: ai}
}

func (h *AIHandler) GenerateScript(c *gin.Context) {
	var req dto.GenerateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.ai.GenerateScript(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) AnalyzeCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AnalyzeCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// the body is optional; the path carries the customer
		req = dto.AnalyzeCustomerRequest{}
	}
	req.CustomerID = id
	resp, err := h.ai.AnalyzeCustomer(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
