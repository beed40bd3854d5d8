package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stem-buddy/internal/service"
)

// NewRouter wires middlewares and routes.
func NewRouter(
	logger *zap.Logger,
	chatH *ChatHandler,
	assistH *AssistHandler,
	tokenSvc *service.TokenService,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	api := r.Group("/api")
	if tokenSvc != nil {
		api.Use(BearerAuthMiddleware(logger, tokenSvc))
	}

	chat := api.Group("/chat")
	chat.GET("/sessions", chatH.ListSessions)
	chat.POST("/sessions", chatH.CreateSession)
	chat.GET("/sessions/:sessionId/messages", chatH.ListMessages)
	chat.POST("/sessions/:sessionId/messages", chatH.PostMessage)

	ai := api.Group("/ai")
	ai.POST("/flashcards", assistH.Flashcards)
	ai.POST("/summarizer", assistH.Summarize)
	ai.POST("/chatbot", assistH.Chatbot)
	ai.POST("/study-plan", assistH.StudyPlan)

	return r
}

// zapLoggerMiddleware logs every request with zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware forces Content-Type: application/json on responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
