package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"stem-buddy/internal/domain"
)

type fakeAPI struct {
	sessionListHits atomic.Int64
	messageListHits atomic.Int64
}

func (f *fakeAPI) handler() http.Handler {
	now := time.Now().UTC()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/chat/sessions", func(w http.ResponseWriter, r *http.Request) {
		f.sessionListHits.Add(1)
		_ = json.NewEncoder(w).Encode([]domain.ChatSession{
			{ID: "s1", UserID: r.URL.Query().Get("userId"), Title: "t", IsActive: true, CreatedAt: now, UpdatedAt: now},
		})
	})
	mux.HandleFunc("POST /api/chat/sessions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"userId"`
			Title  string `json:"title"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(domain.ChatSession{
			ID: "new", UserID: req.UserID, Title: req.Title, IsActive: true, CreatedAt: now, UpdatedAt: now,
		})
	})
	mux.HandleFunc("GET /api/chat/sessions/", func(w http.ResponseWriter, r *http.Request) {
		f.messageListHits.Add(1)
		_ = json.NewEncoder(w).Encode([]domain.ChatMessage{})
	})
	mux.HandleFunc("POST /api/chat/sessions/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "reply text"})
	})
	return mux
}

func TestClient_CacheBehavior(t *testing.T) {
	ctx := context.Background()

	t.Run("session list served from cache", func(t *testing.T) {
		api := &fakeAPI{}
		srv := httptest.NewServer(api.handler())
		defer srv.Close()
		c := New(srv.URL, "")

		for i := 0; i < 3; i++ {
			sessions, err := c.ListSessions(ctx, "u1")
			if err != nil {
				t.Fatalf("list %d: %v", i, err)
			}
			if len(sessions) != 1 || sessions[0].ID != "s1" {
				t.Fatalf("unexpected sessions: %+v", sessions)
			}
		}
		if hits := api.sessionListHits.Load(); hits != 1 {
			t.Fatalf("expected 1 server hit, got %d", hits)
		}
	})

	t.Run("create session invalidates the user's list", func(t *testing.T) {
		api := &fakeAPI{}
		srv := httptest.NewServer(api.handler())
		defer srv.Close()
		c := New(srv.URL, "")

		if _, err := c.ListSessions(ctx, "u1"); err != nil {
			t.Fatalf("list: %v", err)
		}
		if _, err := c.CreateSession(ctx, "u1", "New topic", ""); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := c.ListSessions(ctx, "u1"); err != nil {
			t.Fatalf("list after create: %v", err)
		}

		if hits := api.sessionListHits.Load(); hits != 2 {
			t.Fatalf("expected refetch after create, got %d hits", hits)
		}
	})

	t.Run("post message invalidates messages and session lists", func(t *testing.T) {
		api := &fakeAPI{}
		srv := httptest.NewServer(api.handler())
		defer srv.Close()
		c := New(srv.URL, "")

		if _, err := c.ListMessages(ctx, "s1"); err != nil {
			t.Fatalf("list messages: %v", err)
		}
		if _, err := c.ListSessions(ctx, "u1"); err != nil {
			t.Fatalf("list sessions: %v", err)
		}

		reply, err := c.PostMessage(ctx, "s1", "hello")
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		if reply != "reply text" {
			t.Fatalf("unexpected reply: %q", reply)
		}

		if _, err := c.ListMessages(ctx, "s1"); err != nil {
			t.Fatalf("list messages again: %v", err)
		}
		if _, err := c.ListSessions(ctx, "u1"); err != nil {
			t.Fatalf("list sessions again: %v", err)
		}

		if hits := api.messageListHits.Load(); hits != 2 {
			t.Fatalf("expected message list refetch, got %d hits", hits)
		}
		if hits := api.sessionListHits.Load(); hits != 2 {
			t.Fatalf("expected session list refetch, got %d hits", hits)
		}
	})

	t.Run("api errors are surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "User ID is required"})
		}))
		defer srv.Close()
		c := New(srv.URL, "")

		_, err := c.ListSessions(ctx, "")
		if err == nil || !strings.Contains(err.Error(), "User ID is required") {
			t.Fatalf("expected api error message, got %v", err)
		}
	})

	t.Run("auth token attached when configured", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode([]domain.ChatSession{})
		}))
		defer srv.Close()

		c := New(srv.URL, "tok-123")
		if _, err := c.ListSessions(ctx, "u1"); err != nil {
			t.Fatalf("list: %v", err)
		}
		if gotAuth != "Bearer tok-123" {
			t.Fatalf("unexpected auth header: %q", gotAuth)
		}
	})
}
