// Package api wires the gin router over the service layer.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superxia01/crm/internal/api/handler"
	"github.com/superxia01/crm/internal/api/middleware"
	"github.com/superxia01/crm/internal/auth"
)

// Handlers aggregates the HTTP handlers the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Customers    *handler.CustomerHandler
	Interactions *handler.InteractionHandler
	Deals        *handler.DealHandler
	Knowledge    *handler.KnowledgeHandler
	AI           *handler.AIHandler
	Intake       *handler.IntakeHandler
}

// NewRouter builds the full route tree. All CRM routes sit behind the
// token middleware; only registration, login and the health check are
// public.
func NewRouter(tokens *auth.TokenManager, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
	}

	protected := v1.Group("")
	protected.Use(middleware.Auth(tokens))
	{
		protected.GET("/auth/me", h.Auth.Me)

		customers := protected.Group("/customers")
		{
			customers.POST("", h.Customers.Create)
			customers.GET("", h.Customers.List)
			customers.GET("/archived", h.Customers.ListArchived)
			customers.GET("/:customerId", h.Customers.Get)
			customers.PUT("/:customerId", h.Customers.Update)
			customers.DELETE("/:customerId", h.Customers.Archive)
			customers.POST("/:customerId/restore", h.Customers.Restore)
			customers.POST("/:customerId/follow-up", h.Customers.FollowUp)
		}

		interactions := protected.Group("/interactions")
		{
			interactions.POST("", h.Interactions.Create)
			interactions.GET("", h.Interactions.List)
			interactions.GET("/:id", h.Interactions.Get)
			interactions.DELETE("/:id", h.Interactions.Delete)
		}

		deals := protected.Group("/deals")
		{
			deals.POST("", h.Deals.Create)
			deals.GET("", h.Deals.List)
			deals.GET("/:id", h.Deals.Get)
			deals.PUT("/:id", h.Deals.Update)
			deals.DELETE("/:id", h.Deals.Delete)
		}

		knowledge := protected.Group("/knowledge")
		{
			knowledge.POST("", h.Knowledge.Create)
			knowledge.GET("", h.Knowledge.List)
			knowledge.GET("/:id", h.Knowledge.Get)
			knowledge.PUT("/:id", h.Knowledge.Update)
			knowledge.DELETE("/:id", h.Knowledge.Delete)
		}

		ai := protected.Group("/ai")
		{
			ai.POST("/scripts/generate", h.AI.GenerateScript)
			ai.POST("/customers/:id/analyze", h.AI.AnalyzeCustomer)
		}

		sessions := protected.Group("/intake/sessions")
		{
			sessions.POST("", h.Intake.CreateSession)
			sessions.GET("/:id", h.Intake.GetSession)
			sessions.POST("/:id/turns", h.Intake.Turn)
			sessions.POST("/:id/confirm", h.Intake.Confirm)
			sessions.POST("/:id/continue", h.Intake.ContinueEditing)
			sessions.DELETE("/:id", h.Intake.Cancel)
		}
	}

	return router
}
