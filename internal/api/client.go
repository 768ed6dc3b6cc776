// Package api implements the HTTP transport client for the Commentify
// queue service. Every operation is a thin typed wrapper over one REST
// endpoint; non-2xx responses are translated into *APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the queue service address used when no config or
// environment override is present.
const DefaultBaseURL = "http://localhost:5000/api"

// TokenSource supplies the bearer token for authenticated requests.
// An empty string means no token is available.
type TokenSource func() string

// Client is an authenticated HTTP client for the queue service.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// New creates a client for the service at baseURL. The token source may
// be nil for unauthenticated use (login, register, health).
func New(baseURL string, timeout time.Duration, token TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

// envelope is the server's uniform response wrapper
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do issues one request and decodes the envelope. A nil body means no
// request payload; a nil out discards the data field.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (string, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeError(resp.StatusCode, raw)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("decode response data: %w", err)
		}
	}
	return env.Message, nil
}

// decodeError builds an APIError from a non-2xx body. Bodies that are
// not the expected JSON shape fall back to a generic message.
func decodeError(status int, raw []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	msg := "an error occurred"
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		msg = body.Message
	}
	return &APIError{Status: status, Message: msg}
}

// Health checks service availability
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	return err
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := map[string]string{"email": email, "password": password}
	return c.auth(ctx, "/auth/login", req)
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	req := map[string]string{"username": username, "email": email, "password": password}
	return c.auth(ctx, "/auth/register", req)
}

// auth posts credentials and decodes the flat auth response, which does
// not use the data envelope.
func (c *Client) auth(ctx context.Context, path string, body any) (*AuthResponse, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, raw)
	}

	var out AuthResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// CurrentUser returns the account for the stored token
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	// /auth/me wraps the user directly, not in the data envelope
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out.User, nil
}

// Logout invalidates the token server-side
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

// SubmitJob enqueues a new comment job and returns the assigned job ID
func (c *Client) SubmitJob(ctx context.Context, keywords []string, maxComments int, opts JobOptions) (string, error) {
	req := struct {
		Keywords    []string   `json:"keywords"`
		MaxComments int        `json:"maxComments"`
		Options     JobOptions `json:"options"`
	}{keywords, maxComments, opts}

	var out struct {
		JobID string `json:"jobId"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/start-comment-job", req, &out); err != nil {
		return "", err
	}
	return out.JobID, nil
}

// QueueStats returns the aggregate queue counters
func (c *Client) QueueStats(ctx context.Context) (QueueStats, error) {
	var out QueueStats
	if _, err := c.do(ctx, http.MethodGet, "/comment-jobs/stats", nil, &out); err != nil {
		return QueueStats{}, err
	}
	return out, nil
}

// PauseQueue stops the queue from starting new jobs
func (c *Client) PauseQueue(ctx context.Context) (string, error) {
	return c.do(ctx, http.MethodPost, "/comment-jobs/pause", nil, nil)
}

// ResumeQueue restarts a paused queue
func (c *Client) ResumeQueue(ctx context.Context) (string, error) {
	return c.do(ctx, http.MethodPost, "/comment-jobs/resume", nil, nil)
}

// CleanQueue removes completed and failed jobs from the queue
func (c *Client) CleanQueue(ctx context.Context) (string, error) {
	return c.do(ctx, http.MethodPost, "/comment-jobs/clean", nil, nil)
}

// UserJobStatus reports whether the user may start jobs
func (c *Client) UserJobStatus(ctx context.Context, userID string) (UserJobStatus, error) {
	var out UserJobStatus
	if _, err := c.do(ctx, http.MethodGet, "/comment-jobs/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return UserJobStatus{}, err
	}
	return out, nil
}

// JobHistory fetches one page of past jobs. Status and date filters of
// "all" (or empty) are omitted, making server-side filtering opt-in.
func (c *Client) JobHistory(ctx context.Context, userID string, page, limit int, status, dateFilter string) (*HistoryPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if status != "" && status != "all" {
		params.Set("status", status)
	}
	if dateFilter != "" && dateFilter != "all" {
		params.Set("dateFilter", dateFilter)
	}

	var out HistoryPage
	path := "/comment-jobs/history/" + url.PathEscape(userID) + "?" + params.Encode()
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JobDetails returns the drill-down view for one job
func (c *Client) JobDetails(ctx context.Context, jobID string) (*JobDetails, error) {
	var out JobDetails
	if _, err := c.do(ctx, http.MethodGet, "/comment-jobs/"+url.PathEscape(jobID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtensionStatus asks the pairing service whether the extension holds a
// credential, and for whom. Suitable for polling.
func (c *Client) ExtensionStatus(ctx context.Context, userID, userEmail string) (ExtensionStatus, error) {
	params := url.Values{}
	params.Set("userId", userID)
	params.Set("userEmail", userEmail)

	var out ExtensionStatus
	if _, err := c.do(ctx, http.MethodGet, "/extension/status?"+params.Encode(), nil, &out); err != nil {
		return ExtensionStatus{}, err
	}
	return out, nil
}

// InitiatePairing notifies the server of a pairing attempt. Callers
// treat failures as non-fatal; the handshake is driven by polling.
func (c *Client) InitiatePairing(ctx context.Context, payload PairingPayload) error {
	_, err := c.do(ctx, http.MethodPost, "/extension/pair", payload, nil)
	return err
}

// DisconnectExtension invalidates the pairing record server-side
func (c *Client) DisconnectExtension(ctx context.Context, userID string) error {
	req := map[string]string{"userId": userID}
	_, err := c.do(ctx, http.MethodPost, "/extension/disconnect", req, nil)
	return err
}
