// Package rucaptcha implements the captcha.Provider contract for the
// RuCaptcha API (https://api.rucaptcha.com).
package rucaptcha

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	captcha "github.com/anatolykoptev/go-captcha"
)

const (
	defaultAPIURL    = "https://api.rucaptcha.com"
	balanceWarnLevel = 5.0
)

// Provider talks to the RuCaptcha API. It implements
// captcha.Provider[captcha.Solution]. RuCaptcha task ids are numeric on
// the wire; they are carried as their decimal form in captcha.TaskID.
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

// New creates a RuCaptcha provider with the given API key.
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

// CreateTask submits a captcha task and returns the RuCaptcha task id.
func (p *Provider) CreateTask(ctx context.Context, task captcha.Task) (captcha.TaskID, error) {
	payload, err := taskPayload(task)
	if err != nil {
		return "", err
	}
	req := map[string]any{"clientKey": p.apiKey, "task": payload}

	var resp struct {
		envelope
		TaskID int64 `json:"taskId"`
	}
	if err := p.post(ctx, "/createTask", req, &resp); err != nil {
		return "", fmt.Errorf("rucaptcha createTask: %w", err)
	}
	if err := resp.apiError(); err != nil {
		return "", fmt.Errorf("rucaptcha createTask: %w", err)
	}
	if resp.TaskID == 0 {
		return "", fmt.Errorf("rucaptcha: empty taskId in response")
	}
	return captcha.TaskID(strconv.FormatInt(resp.TaskID, 10)), nil
}

// GetTaskResult polls for a task's solution. A nil solution with a nil error
// means the task is still processing.
func (p *Provider) GetTaskResult(ctx context.Context, id captcha.TaskID) (*captcha.Solution, error) {
	numericID, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("rucaptcha: malformed task id %q: %w", id, err)
	}
	req := map[string]any{"clientKey": p.apiKey, "taskId": numericID}

	var resp struct {
		envelope
		Status   string            `json:"status"`
		Solution *captcha.Solution `json:"solution"`
	}
	if err := p.post(ctx, "/getTaskResult", req, &resp); err != nil {
		return nil, fmt.Errorf("rucaptcha getTaskResult: %w", err)
	}
	if err := resp.apiError(); err != nil {
		return nil, fmt.Errorf("rucaptcha getTaskResult: %w", err)
	}

	switch resp.Status {
	case "ready":
		if resp.Solution == nil {
			return nil, fmt.Errorf("rucaptcha: ready but empty solution")
		}
		return resp.Solution, nil
	case "processing":
		return nil, nil
	default:
		return nil, fmt.Errorf("rucaptcha: unexpected status %q", resp.Status)
	}
}

// ReportIncorrect tells the vendor a delivered solution did not work, which
// refunds the charge for most captcha types.
func (p *Provider) ReportIncorrect(ctx context.Context, id captcha.TaskID) error {
	numericID, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return fmt.Errorf("rucaptcha: malformed task id %q: %w", id, err)
	}
	req := map[string]any{"clientKey": p.apiKey, "taskId": numericID}

	var resp struct {
		envelope
	}
	if err := p.post(ctx, "/reportIncorrect", req, &resp); err != nil {
		return fmt.Errorf("rucaptcha reportIncorrect: %w", err)
	}
	if err := resp.apiError(); err != nil {
		return fmt.Errorf("rucaptcha reportIncorrect: %w", err)
	}
	return nil
}

// Balance returns the account balance.
func (p *Provider) Balance(ctx context.Context) (float64, error) {
	req := map[string]any{"clientKey": p.apiKey}

	var resp struct {
		envelope
		Balance float64 `json:"balance"`
	}
	if err := p.post(ctx, "/getBalance", req, &resp); err != nil {
		return 0, fmt.Errorf("rucaptcha getBalance: %w", err)
	}
	if err := resp.apiError(); err != nil {
		return 0, fmt.Errorf("rucaptcha getBalance: %w", err)
	}
	if resp.Balance < balanceWarnLevel {
		slog.Warn("rucaptcha balance low", slog.Float64("balance", resp.Balance))
	}
	return resp.Balance, nil
}

// envelope is the error header every RuCaptcha response carries.
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
