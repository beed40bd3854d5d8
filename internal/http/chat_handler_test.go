package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"stem-buddy/internal/domain"
	"stem-buddy/internal/llm"
	"stem-buddy/internal/repository"
	"stem-buddy/internal/service"
)

func newTestRouter(mock *llm.MockClient, tokenSvc *service.TokenService) (*gin.Engine, *repository.MemoryChatStore) {
	gin.SetMode(gin.TestMode)
	store := repository.NewMemoryChatStore()
	tutor := service.NewTutorService(store, store, mock, nil)
	assist := service.NewAssistService(mock)
	logger := zap.NewNop()
	router := NewRouter(logger, NewChatHandler(logger, tutor), NewAssistHandler(logger, assist), tokenSvc)
	return router, store
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createTestSession(t *testing.T, router *gin.Engine, userID, title string) domain.ChatSession {
	t.Helper()
	rec := doJSON(router, http.MethodPost, "/api/chat/sessions", map[string]string{
		"userId": userID,
		"title":  title,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create session returned %d: %s", rec.Code, rec.Body.String())
	}
	var session domain.ChatSession
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session
}

func TestChatHandler_Sessions(t *testing.T) {
	t.Run("list requires user id", func(t *testing.T) {
		router, _ := newTestRouter(&llm.MockClient{}, nil)
		rec := doJSON(router, http.MethodGet, "/api/chat/sessions", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("create requires title", func(t *testing.T) {
		router, _ := newTestRouter(&llm.MockClient{}, nil)
		rec := doJSON(router, http.MethodPost, "/api/chat/sessions", map[string]string{"userId": "u1"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("create then list", func(t *testing.T) {
		router, _ := newTestRouter(&llm.MockClient{}, nil)
		session := createTestSession(t, router, "u1", "Algebra help")
		if session.UserID != "u1" || session.Title != "Algebra help" {
			t.Fatalf("unexpected session: %+v", session)
		}

		rec := doJSON(router, http.MethodGet, "/api/chat/sessions?userId=u1", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var sessions []domain.ChatSession
		if err := json.Unmarshal(rec.Body.Bytes(), &sessions); err != nil {
			t.Fatalf("decode sessions: %v", err)
		}
		if len(sessions) != 1 || sessions[0].ID != session.ID {
			t.Fatalf("unexpected sessions: %+v", sessions)
		}
	})

	t.Run("fresh session has empty message array", func(t *testing.T) {
		router, _ := newTestRouter(&llm.MockClient{}, nil)
		session := createTestSession(t, router, "u1", "Fresh")

		rec := doJSON(router, http.MethodGet, "/api/chat/sessions/"+session.ID+"/messages", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if body := rec.Body.String(); body != "[]" {
			t.Fatalf("expected empty array, got %s", body)
		}
	})
}

func TestChatHandler_PostMessage(t *testing.T) {
	t.Run("successful turn", func(t *testing.T) {
		mock := &llm.MockClient{Response: "F = ma, meaning force equals mass times acceleration."}
		router, store := newTestRouter(mock, nil)
		session := createTestSession(t, router, "u1", "Mechanics")

		rec := doJSON(router, http.MethodPost, "/api/chat/sessions/"+session.ID+"/messages",
			map[string]string{"message": "What is Newton's second law?"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Response string `json:"response"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Response != mock.Response {
			t.Fatalf("unexpected response: %q", resp.Response)
		}

		history, _ := store.ListBySessionID(context.Background(), session.ID)
		if len(history) != 2 {
			t.Fatalf("expected 2 stored messages, got %d", len(history))
		}
		if history[0].Role != domain.RoleUser || history[1].Role != domain.RoleAssistant {
			t.Fatalf("unexpected roles: %s, %s", history[0].Role, history[1].Role)
		}
	})

	t.Run("missing message", func(t *testing.T) {
		router, _ := newTestRouter(&llm.MockClient{}, nil)
		session := createTestSession(t, router, "u1", "T")

		rec := doJSON(router, http.MethodPost, "/api/chat/sessions/"+session.ID+"/messages", map[string]string{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		router, _ := newTestRouter(&llm.MockClient{Response: "x"}, nil)
		rec := doJSON(router, http.MethodPost, "/api/chat/sessions/does-not-exist/messages",
			map[string]string{"message": "hello"})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("provider misconfiguration keeps user message", func(t *testing.T) {
		mock := &llm.MockClient{Err: domain.ErrNotConfigured}
		router, store := newTestRouter(mock, nil)
		session := createTestSession(t, router, "u1", "T")

		rec := doJSON(router, http.MethodPost, "/api/chat/sessions/"+session.ID+"/messages",
			map[string]string{"message": "anyone there?"})
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}

		history, _ := store.ListBySessionID(context.Background(), session.ID)
		if len(history) != 1 || history[0].Role != domain.RoleUser {
			t.Fatalf("expected only the user message, got %+v", history)
		}
	})

	t.Run("upstream failure hides provider detail", func(t *testing.T) {
		mock := &llm.MockClient{Err: domain.ErrUpstream}
		router, _ := newTestRouter(mock, nil)
		session := createTestSession(t, router, "u1", "T")

		rec := doJSON(router, http.MethodPost, "/api/chat/sessions/"+session.ID+"/messages",
			map[string]string{"message": "hi"})
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		var resp struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Error != "Failed to get AI response" {
			t.Fatalf("unexpected public error: %q", resp.Error)
		}
	})
}

func TestChatHandler_OwnerScopedAccess(t *testing.T) {
	const secret = "test-secret"
	tokenSvc := service.NewTokenService(secret)

	signToken := func(t *testing.T, subject string) string {
		t.Helper()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, err := token.SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}
		return signed
	}

	t.Run("missing token rejected", func(t *testing.T) {
		router, _ := newTestRouter(&llm.MockClient{}, tokenSvc)
		rec := doJSON(router, http.MethodGet, "/api/chat/sessions?userId=u1", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("token identity overrides caller user id", func(t *testing.T) {
		router, store := newTestRouter(&llm.MockClient{}, tokenSvc)
		now := time.Now().UTC()
		_ = store.Create(context.Background(), domain.ChatSession{
			ID: "owned", UserID: "token-user", Title: "t", IsActive: true, CreatedAt: now, UpdatedAt: now,
		})

		req := httptest.NewRequest(http.MethodGet, "/api/chat/sessions?userId=someone-else", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "token-user"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var sessions []domain.ChatSession
		_ = json.Unmarshal(rec.Body.Bytes(), &sessions)
		if len(sessions) != 1 || sessions[0].ID != "owned" {
			t.Fatalf("expected the token owner's sessions, got %+v", sessions)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		router, _ := newTestRouter(&llm.MockClient{}, tokenSvc)
		req := httptest.NewRequest(http.MethodGet, "/api/chat/sessions?userId=u1", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
