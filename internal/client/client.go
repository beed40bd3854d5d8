package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"stem-buddy/internal/domain"
)

// Client consumes the chat API with an explicit read-through cache keyed by
// logical resource: one entry per user's session list, one per session's
// message list. Every successful write invalidates the resources it touched.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client

	mu           sync.Mutex
	sessionLists map[string][]domain.ChatSession
	messageLists map[string][]domain.ChatMessage
}

func New(baseURL, authToken string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		authToken:    authToken,
		httpClient:   &http.Client{Timeout: 2 * time.Minute},
		sessionLists: make(map[string][]domain.ChatSession),
		messageLists: make(map[string][]domain.ChatMessage),
	}
}

// ListSessions returns the user's sessions, served from cache when present.
func (c *Client) ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	c.mu.Lock()
	if cached, ok := c.sessionLists[userID]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	var sessions []domain.ChatSession
	err := c.do(ctx, http.MethodGet, "/api/chat/sessions?userId="+userID, nil, &sessions)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.sessionLists[userID] = sessions
	c.mu.Unlock()
	return sessions, nil
}

// CreateSession opens a session and invalidates the user's cached list.
func (c *Client) CreateSession(ctx context.Context, userID, title, subject string) (domain.ChatSession, error) {
	body := map[string]string{"userId": userID, "title": title}
	if subject != "" {
		body["subject"] = subject
	}

	var session domain.ChatSession
	if err := c.do(ctx, http.MethodPost, "/api/chat/sessions", body, &session); err != nil {
		return domain.ChatSession{}, err
	}

	c.mu.Lock()
	delete(c.sessionLists, userID)
	c.mu.Unlock()
	return session, nil
}

// ListMessages returns a session's history, served from cache when present.
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	c.mu.Lock()
	if cached, ok := c.messageLists[sessionID]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	var messages []domain.ChatMessage
	err := c.do(ctx, http.MethodGet, "/api/chat/sessions/"+sessionID+"/messages", nil, &messages)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.messageLists[sessionID] = messages
	c.mu.Unlock()
	return messages, nil
}

// PostMessage submits one turn and returns the assistant reply. The write
// touches the session's messages and reorders every session list, so both
// cache families are invalidated.
func (c *Client) PostMessage(ctx context.Context, sessionID, message string) (string, error) {
	var resp struct {
		Response string `json:"response"`
	}
	err := c.do(ctx, http.MethodPost, "/api/chat/sessions/"+sessionID+"/messages",
		map[string]string{"message": message}, &resp)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	delete(c.messageLists, sessionID)
	c.sessionLists = make(map[string][]domain.ChatSession)
	c.mu.Unlock()
	return resp.Response, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api error: status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
