// Package capsolver implements the captcha.Provider contract for the
// Capsolver API (https://api.capsolver.com).
package capsolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	captcha "github.com/anatolykoptev/go-captcha"
)

const (
	defaultAPIURL    = "https://api.capsolver.com"
	balanceWarnLevel = 5.0 // warn when balance drops below $5
)

// Provider talks to the Capsolver API. It implements
// captcha.Provider[captcha.Solution]; every call is exactly one network
// round trip, with no retrying — wrap it in a captcha.RetryProvider for
// that.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option customizes a Provider.
type Option func(*Provider)

// WithBaseURL points the provider at a different API host. Used by tests.
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = u }
}

// WithHTTPClient replaces the default HTTP client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// New creates a Capsolver provider with the given API key.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:  apiKey,
		baseURL: defaultAPIURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateTask submits a captcha task and returns the Capsolver task id.
func (p *Provider) CreateTask(ctx context.Context, task captcha.Task) (captcha.TaskID, error) {
	payload, err := taskPayload(task)
	if err != nil {
		return "", err
	}
	req := map[string]any{"clientKey": p.apiKey, "task": payload}

	var resp struct {
		envelope
		TaskID string `json:"taskId"`
	}
	if err := p.post(ctx, "/createTask", req, &resp); err != nil {
		return "", fmt.Errorf("capsolver createTask: %w", err)
	}
	if err := resp.apiError(); err != nil {
		return "", fmt.Errorf("capsolver createTask: %w", err)
	}
	if resp.TaskID == "" {
		return "", fmt.Errorf("capsolver: empty taskId in response")
	}
	return captcha.TaskID(resp.TaskID), nil
}

// GetTaskResult polls for a task's solution. A nil solution with a nil error
// means the task is still processing.
func (p *Provider) GetTaskResult(ctx context.Context, id captcha.TaskID) (*captcha.Solution, error) {
	req := map[string]any{"clientKey": p.apiKey, "taskId": string(id)}

	var resp struct {
		envelope
		Status   string            `json:"status"`
		Solution *captcha.Solution `json:"solution"`
	}
	if err := p.post(ctx, "/getTaskResult", req, &resp); err != nil {
		return nil, fmt.Errorf("capsolver getTaskResult: %w", err)
	}
	if err := resp.apiError(); err != nil {
		return nil, fmt.Errorf("capsolver getTaskResult: %w", err)
	}

	switch resp.Status {
	case "ready":
		if resp.Solution == nil {
			return nil, fmt.Errorf("capsolver: ready but empty solution")
		}
		return resp.Solution, nil
	case "processing":
		return nil, nil
	default:
		return nil, fmt.Errorf("capsolver: unexpected status %q", resp.Status)
	}
}

// Balance returns the account balance in USD.
func (p *Provider) Balance(ctx context.Context) (float64, error) {
	req := map[string]any{"clientKey": p.apiKey}

	var resp struct {
		envelope
		Balance float64 `json:"balance"`
	}
	if err := p.post(ctx, "/getBalance", req, &resp); err != nil {
		return 0, fmt.Errorf("capsolver getBalance: %w", err)
	}
	if err := resp.apiError(); err != nil {
		return 0, fmt.Errorf("capsolver getBalance: %w", err)
	}
	if resp.Balance < balanceWarnLevel {
		slog.Warn("capsolver balance low", slog.Float64("balance", resp.Balance))
	}
	return resp.Balance, nil
}

// envelope is the error header every Capsolver response carries.
type envelope struct {
	ErrorID          int    `json:"errorId"`
	ErrorCode        string `json:"errorCode"`
	ErrorDescription string `json:"errorDescription"`
}

func (e envelope) apiError() error {
	if e.ErrorID == 0 {
		return nil
	}
	return &APIError{Code: e.ErrorCode, Description: e.ErrorDescription}
}

// post sends a JSON POST request to the API and decodes the response.
func (p *Provider) post(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(data[:min(200, len(data))])}
	}

	return json.Unmarshal(data, result)
}
