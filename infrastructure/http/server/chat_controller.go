package server

import (
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
	"skillsync/auth"
	"skillsync/domain"
	"skillsync/domain/search"
	"skillsync/services"
)

// ChatController serves the conversation endpoints. The caller is always
// the authenticated user, never a field of the body.
type ChatController struct {
	log     *slog.Logger
	service services.IConversationService
}

func NewChatController(log *slog.Logger, service services.IConversationService) *ChatController {
	return &ChatController{log: log, service: service}
}

type createConversationRequest struct {
	UserID string  `json:"userId"`
	TaskID *string `json:"taskId"`
}

type sendMessageRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
	Content        string `json:"content"`
}

func (ctl *ChatController) ListConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := ctl.service.ListConversations(c.Request.Context(), auth.UserID(c))
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		if views == nil {
			views = []services.ConversationView{}
		}
		c.JSON(http.StatusOK, views)
	}
}

// CreateConversation answers 201 for a new conversation and 200 when an
// existing one is resolved.
func (ctl *ChatController) CreateConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createConversationRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		view, created, err := ctl.service.CreateConversation(c.Request.Context(), auth.UserID(c), req.UserID, req.TaskID)
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, view)
	}
}

func (ctl *ChatController) GetMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := ctl.service.GetMessages(c.Request.Context(), auth.UserID(c), c.Param("conversationId"))
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		if messages == nil {
			messages = []domain.Message{}
		}
		c.JSON(http.StatusOK, messages)
	}
}

func (ctl *ChatController) SendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		if err := auth.Validate(req); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		message, err := ctl.service.SendMessage(c.Request.Context(), auth.UserID(c), req.ConversationID, req.Content)
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusCreated, message)
	}
}

func (ctl *ChatController) MarkAsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ctl.service.MarkAsRead(c.Request.Context(), auth.UserID(c), c.Param("conversationId")); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
	}
}

// Search runs a full-text query over the caller's conversations.
// The query accepts the --from and --limit flags.
func (ctl *ChatController) Search() gin.HandlerFunc {
	return func(c *gin.Context) {
		hits, err := ctl.service.SearchMessages(c.Request.Context(), auth.UserID(c), c.Query("q"))
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		if hits == nil {
			hits = []search.Hit{}
		}
		c.JSON(http.StatusOK, hits)
	}
}
