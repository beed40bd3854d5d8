package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stem-buddy/internal/service"
)

// AssistHandler exposes the single-shot study tools.
type AssistHandler struct {
	logger *zap.Logger
	assist *service.AssistService
}

func NewAssistHandler(logger *zap.Logger, assist *service.AssistService) *AssistHandler {
	return &AssistHandler{logger: logger, assist: assist}
}

// Flashcards handles POST /api/ai/flashcards.
func (h *AssistHandler) Flashcards(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Notes == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Notes content is required"})
		return
	}

	cards, err := h.assist.Flashcards(c.Request.Context(), req.Notes)
	if err != nil {
		h.fail(c, "generate flashcards failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"flashcards": cards})
}

// Summarize handles POST /api/ai/summarizer.
func (h *AssistHandler) Summarize(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text content is required"})
		return
	}

	summary, err := h.assist.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		h.fail(c, "generate summary failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// Chatbot handles POST /api/ai/chatbot, the memoryless legacy endpoint.
func (h *AssistHandler) Chatbot(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question is required"})
		return
	}

	answer, err := h.assist.Answer(c.Request.Context(), req.Question)
	if err != nil {
		h.fail(c, "chatbot answer failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// StudyPlan handles POST /api/ai/study-plan.
func (h *AssistHandler) StudyPlan(c *gin.Context) {
	var req struct {
		ExamDate string `json:"examDate"`
		Topics   string `json:"topics"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ExamDate == "" || req.Topics == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exam date and topics are required"})
		return
	}

	plan, err := h.assist.StudyPlan(c.Request.Context(), req.ExamDate, req.Topics)
	if err != nil {
		h.fail(c, "generate study plan failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"studyPlan": plan})
}

func (h *AssistHandler) fail(c *gin.Context, logMsg string, err error) {
	h.logger.Error(logMsg, zap.Error(err))
	c.JSON(statusFromError(err), gin.H{"error": publicMessage(err)})
}
