// Package server exposes the chat backend over HTTP: the REST surface and
// the websocket endpoint of the realtime gateway.
package server

import (
	"github.com/gin-gonic/gin"
	"log/slog"
	"skillsync/auth"
)

// Controllers groups one controller per area of the API.
type Controllers struct {
	Auth    *AuthController
	Tasks   *TaskController
	Rewards *RewardsController
	Profile *ProfileController
	Chat    *ChatController
	Health  *HealthController
	Gateway *GatewayController
}

// NewRouter mounts every route on a fresh gin engine.
// Health, signup, login, task browsing, the leaderboard and the websocket are
// public, everything else requires a bearer token.
func NewRouter(log *slog.Logger, tokens *auth.TokenManager, users auth.UserLookup,
	allowedOrigins []string, ctl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(log), RequestLogger(log), Cors(allowedOrigins))
	requireAuth := auth.RequireAuth(tokens, users, log)

	api := r.Group("/api")
	api.GET("/health", ctl.Health.Handle())

	// /api/auth
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", ctl.Auth.Signup())
	authGroup.POST("/login", ctl.Auth.Login())
	authGroup.GET("/user", requireAuth, ctl.Auth.CurrentUser())

	// /api/tasks
	tasks := api.Group("/tasks")
	tasks.GET("", ctl.Tasks.List())
	tasks.GET("/my-tasks", requireAuth, ctl.Tasks.Mine())
	tasks.GET("/:taskId", ctl.Tasks.Get())
	tasks.POST("", requireAuth, ctl.Tasks.Create())
	tasks.PUT("/:taskId", requireAuth, ctl.Tasks.Update())
	tasks.DELETE("/:taskId", requireAuth, ctl.Tasks.Delete())
	tasks.POST("/:taskId/apply", requireAuth, ctl.Tasks.Apply())
	tasks.PUT("/:taskId/complete", requireAuth, ctl.Tasks.Complete())

	// /api/rewards
	rewards := api.Group("/rewards")
	rewards.GET("/leaderboard", ctl.Rewards.Leaderboard())
	rewards.GET("", requireAuth, ctl.Rewards.Get())
	rewards.POST("/redeem", requireAuth, ctl.Rewards.Redeem())

	// /api/profile
	profile := api.Group("/profile", requireAuth)
	profile.GET("", ctl.Profile.Get())
	profile.PUT("", ctl.Profile.Update())

	// /api/chat
	chat := api.Group("/chat", requireAuth)
	chat.GET("/conversations", ctl.Chat.ListConversations())
	chat.POST("/conversations", ctl.Chat.CreateConversation())
	chat.PUT("/conversations/:conversationId/read", ctl.Chat.MarkAsRead())
	chat.GET("/messages/:conversationId", ctl.Chat.GetMessages())
	chat.POST("/messages", ctl.Chat.SendMessage())
	chat.GET("/search", ctl.Chat.Search())

	// The websocket resolves its own identity, an invalid token is refused before upgrade
	r.GET("/ws", ctl.Gateway.Handle())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"message": "route not found"})
	})
	return r
}
