package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindcare/internal/service"
)

// ChatHandler mantiene dependencias para endpoints de sesiones y mensajes.
type ChatHandler struct {
	logger      *zap.Logger
	sessionServ *service.SessionService
	messageServ *service.MessageService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, sessionServ *service.SessionService, messageServ *service.MessageService) *ChatHandler {
	return &ChatHandler{
		logger:      logger,
		sessionServ: sessionServ,
		messageServ: messageServ,
	}
}

// CreateSession maneja POST /sessions.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req struct {
		Title    string `json:"title"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.logger.Warn("invalid create session request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.sessionServ.Create(c.Request.Context(), ownerID(c), req.Title, req.Language)
	if err != nil {
		h.logger.Error("create session failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": "could not create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// ListSessions maneja GET /sessions.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	previews, err := h.sessionServ.List(c.Request.Context(), ownerID(c))
	if err != nil {
		h.logger.Error("list sessions failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": "could not list sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": previews})
}

// PostMessage maneja POST /sessions/:id/messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Role     string            `json:"role" binding:"required"`
		Content  string            `json:"content" binding:"required"`
		Language string            `json:"language"`
		AudioURL string            `json:"audio_url"`
		Context  map[string]string `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.messageServ.Append(c.Request.Context(), ownerID(c), c.Param("id"), service.AppendInput{
		Role:     req.Role,
		Content:  req.Content,
		Language: req.Language,
		AudioURL: req.AudioURL,
		Context:  req.Context,
	})
	if err != nil {
		h.logger.Error("post message failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": "could not post message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// ListMessages maneja GET /sessions/:id/messages.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	messages, err := h.messageServ.ListBySession(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		h.logger.Error("list messages failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": "could not list messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// ArchiveSession maneja POST /sessions/:id/archive.
func (h *ChatHandler) ArchiveSession(c *gin.Context) {
	if err := h.sessionServ.Archive(c.Request.Context(), c.Param("id"), ownerID(c)); err != nil {
		h.logger.Error("archive session failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": "could not archive session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"archived": true})
}
