package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/dinehub/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Lead   *apiHandler.LeadHandler
	Chat   *apiHandler.ChatHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)

	// Leads
	r.GET("/api/v1/leads", authMiddleware(handlers.Lead.ListLeads))
	r.POST("/api/v1/leads", authMiddleware(handlers.Lead.CreateLead))
	r.POST("/api/v1/leads/bulk", authMiddleware(handlers.Lead.Bulk))
	r.GET("/api/v1/leads/{id}", authMiddleware(handlers.Lead.GetLead))
	r.PUT("/api/v1/leads/{id}/status", authMiddleware(handlers.Lead.UpdateStatus))
	r.PUT("/api/v1/leads/{id}/assignee", authMiddleware(handlers.Lead.Reassign))
	r.POST("/api/v1/leads/{id}/notes", authMiddleware(handlers.Lead.AddNote))
	r.POST("/api/v1/leads/{id}/follow-ups", authMiddleware(handlers.Lead.AddFollowUp))
	r.POST("/api/v1/leads/{id}/convert", authMiddleware(handlers.Lead.Convert))
	r.GET("/api/v1/leads/{id}/activities", authMiddleware(handlers.Lead.Activities))
	r.POST("/api/v1/follow-ups/{id}/complete", authMiddleware(handlers.Lead.CompleteFollowUp))

	// Conversations
	r.GET("/api/v1/conversations", authMiddleware(handlers.Chat.ListConversations))
	r.GET("/api/v1/conversations/{id}", authMiddleware(handlers.Chat.GetConversation))
	r.DELETE("/api/v1/conversations/{id}", authMiddleware(handlers.Chat.Archive))
	r.GET("/api/v1/conversations/{id}/messages", authMiddleware(handlers.Chat.Messages))
	r.POST("/api/v1/conversations/{id}/messages", authMiddleware(handlers.Chat.SendMessage))
	r.PUT("/api/v1/conversations/{id}/status", authMiddleware(handlers.Chat.UpdateStatus))
	r.PUT("/api/v1/conversations/{id}/assignee", authMiddleware(handlers.Chat.Reassign))

	return r
}
