package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stem-buddy/internal/domain"
	"stem-buddy/internal/service"
)

// ChatHandler exposes the tutor session endpoints.
type ChatHandler struct {
	logger *zap.Logger
	tutor  *service.TutorService
}

func NewChatHandler(logger *zap.Logger, tutor *service.TutorService) *ChatHandler {
	return &ChatHandler{logger: logger, tutor: tutor}
}

// ListSessions handles GET /api/chat/sessions?userId={id}.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID := h.resolveUserID(c, c.Query("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	sessions, err := h.tutor.ListSessions(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "list sessions failed", err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// CreateSession handles POST /api/chat/sessions.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req struct {
		UserID  string `json:"userId"`
		Title   string `json:"title"`
		Subject string `json:"subject"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create session request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID := h.resolveUserID(c, req.UserID)
	if userID == "" || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID and title are required"})
		return
	}

	session, err := h.tutor.CreateSession(c.Request.Context(), userID, req.Title, req.Subject)
	if err != nil {
		h.fail(c, "create session failed", err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ListMessages handles GET /api/chat/sessions/:sessionId/messages.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	messages, err := h.tutor.ListMessages(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.fail(c, "list messages failed", err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// PostMessage handles POST /api/chat/sessions/:sessionId/messages. It runs a
// full tutoring turn and answers with the assistant's reply text.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply, err := h.tutor.PostMessage(c.Request.Context(), c.Param("sessionId"), req.Message)
	if err != nil {
		h.fail(c, "post message failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply.Content})
}

// resolveUserID prefers the verified token identity over caller-supplied
// identifiers, giving owner-scoped access when auth is configured.
func (h *ChatHandler) resolveUserID(c *gin.Context, requested string) string {
	if claims, ok := GetAuthClaims(c); ok {
		return claims.UserID
	}
	return requested
}

// fail maps the error taxonomy to HTTP statuses. Raw provider payloads never
// reach the client.
func (h *ChatHandler) fail(c *gin.Context, logMsg string, err error) {
	h.logger.Error(logMsg, zap.Error(err))
	c.JSON(statusFromError(err), gin.H{"error": publicMessage(err)})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid request"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "chat session not found"
	case errors.Is(err, domain.ErrNotConfigured):
		return "AI service is not configured"
	case errors.Is(err, domain.ErrUpstream):
		return "Failed to get AI response"
	default:
		return "internal error"
	}
}
