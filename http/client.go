package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fwojciec/ragchat"
)

// Interface compliance check.
var _ ragchat.API = (*Client)(nil)

// Sessions lists all sessions for a user.
func (c *Client) Sessions(ctx context.Context, userID string) ([]ragchat.Session, error) {
	body, err := c.do(ctx, http.MethodGet, sessionsPath, userQuery(userID), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[ragchat.Session](body), nil
}

// CreateSession creates an empty session with the given name.
func (c *Client) CreateSession(ctx context.Context, userID, sessionName string) (ragchat.Session, error) {
	payload := map[string]string{"userId": userID, "sessionName": sessionName}
	body, err := c.do(ctx, http.MethodPost, sessionsPath, nil, payload)
	if err != nil {
		return ragchat.Session{}, err
	}
	return decodeSession(body)
}

// Session fetches a single session by ID.
func (c *Client) Session(ctx context.Context, sessionID, userID string) (ragchat.Session, error) {
	body, err := c.do(ctx, http.MethodGet, sessionsPath+"/"+sessionID, userQuery(userID), nil)
	if err != nil {
		return ragchat.Session{}, err
	}
	return decodeSession(body)
}

// UpdateSession applies upd to the session and returns the result.
func (c *Client) UpdateSession(ctx context.Context, sessionID, userID string, upd ragchat.SessionUpdate) (ragchat.Session, error) {
	body, err := c.do(ctx, http.MethodPut, sessionsPath+"/"+sessionID, userQuery(userID), upd)
	if err != nil {
		return ragchat.Session{}, err
	}
	return decodeSession(body)
}

// DeleteSession removes a session and all of its messages.
func (c *Client) DeleteSession(ctx context.Context, sessionID, userID string) error {
	_, err := c.do(ctx, http.MethodDelete, sessionsPath+"/"+sessionID, userQuery(userID), nil)
	return err
}

// ToggleFavorite flips the session's favorite flag server-side.
func (c *Client) ToggleFavorite(ctx context.Context, sessionID, userID string) (ragchat.Session, error) {
	body, err := c.do(ctx, http.MethodPatch, sessionsPath+"/"+sessionID+"/favorite", userQuery(userID), nil)
	if err != nil {
		return ragchat.Session{}, err
	}
	return decodeSession(body)
}

// Messages lists a session's messages, paged.
func (c *Client) Messages(ctx context.Context, sessionID, userID string, page, size int) ([]ragchat.Message, error) {
	q := userQuery(userID)
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))
	body, err := c.do(ctx, http.MethodGet, sessionsPath+"/"+sessionID+"/messages", q, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[ragchat.Message](body), nil
}

// DeleteMessage removes a single message from a session.
func (c *Client) DeleteMessage(ctx context.Context, sessionID, messageID, userID string) error {
	_, err := c.do(ctx, http.MethodDelete, sessionsPath+"/"+sessionID+"/messages/"+messageID, userQuery(userID), nil)
	return err
}

// Chat runs an assistant turn on an existing session. The message travels
// as a query parameter per the backend's contract.
func (c *Client) Chat(ctx context.Context, sessionID, userID, message string) (ragchat.Message, error) {
	q := userQuery(userID)
	q.Set("message", message)
	body, err := c.do(ctx, http.MethodPost, chatPath+"/"+sessionID, q, nil)
	if err != nil {
		return ragchat.Message{}, err
	}
	// Best-effort decode: callers reload the session's messages for the
	// authoritative state, so a shape mismatch here is not an error.
	var msg ragchat.Message
	_ = decodeObject(body, &msg)
	return msg, nil
}

// NewChat creates a session titled title and runs the first assistant turn.
func (c *Client) NewChat(ctx context.Context, userID, message, title string) (ragchat.Session, error) {
	if title == "" {
		title = ragchat.DefaultTitle
	}
	q := userQuery(userID)
	q.Set("message", message)
	q.Set("title", title)
	body, err := c.do(ctx, http.MethodPost, chatPath, q, nil)
	if err != nil {
		return ragchat.Session{}, err
	}
	return decodeSession(body)
}

// Status probes the assistant service's health. No user identity required.
func (c *Client) Status(ctx context.Context) (ragchat.ServiceStatus, error) {
	body, err := c.do(ctx, http.MethodGet, statusPath, nil, nil)
	if err != nil {
		return ragchat.ServiceStatus{}, err
	}
	var st ragchat.ServiceStatus
	if err := decodeObject(body, &st); err != nil {
		return ragchat.ServiceStatus{}, fmt.Errorf("decode status: %w", err)
	}
	return st, nil
}

// do executes one request and returns the raw response body. Non-2xx
// responses become a *ragchat.ServerError; transport failures and context
// cancellation pass through wrapped.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverError(resp.StatusCode, body)
	}
	return body, nil
}

// serverError builds a *ragchat.ServerError, extracting the server's
// message from the body when one is present.
func serverError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &ragchat.ServerError{StatusCode: status, Message: payload.Message}
	}
	return &ragchat.ServerError{StatusCode: status}
}

func decodeSession(body []byte) (ragchat.Session, error) {
	var s ragchat.Session
	if err := decodeObject(body, &s); err != nil {
		return ragchat.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func userQuery(userID string) url.Values {
	return url.Values{"userId": []string{userID}}
}
