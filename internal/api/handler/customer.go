package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superxia01/crm/internal/api/middleware"
	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/service"
)

type CustomerHandler struct {
	customers *service.CustomerService
}

func NewCustomerHandler(customers *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	customer, err := h.customers.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) List(c *gin.Context) {
	var q dto.CustomerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	customers, meta, err := h.customers.List(c.Request.Context(), middleware.UserID(c), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "meta": meta})
}

func (h *CustomerHandler) ListArchived(c *gin.Context) {
	var q dto.CustomerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	customers, meta, err := h.customers.ListArchived(c.Request.Context(), middleware.UserID(c), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "meta": meta})
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	customer, err := h.customers.Get(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	customer, err := h.customers.Update(c.Request.Context(), id, middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Archive(c *gin.Context) {
	id, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	if err := h.customers.Archive(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CustomerHandler) Restore(c *gin.Context) {
	id, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	customer, err := h.customers.Restore(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) FollowUp(c *gin.Context) {
	id, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	if err := h.customers.TouchFollowUp(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
