package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/nhle/taskpane/internal/model"
)

const (
	rewordPath  = "/api/reword"
	composePath = "/api/compose"
	analyzePath = "/api/analyze-email"

	defaultTimeout = 60 * time.Second
	userAgent      = "taskpane/1"
)

// Service is the set of calls the taskpane makes against the remote AI
// text service. *Client implements it; tests substitute fakes.
type Service interface {
	Reword(ctx context.Context, selectedText, toneInstructions string) (string, error)
	Compose(ctx context.Context, composeContext string) (string, error)
	AnalyzeEmail(ctx context.Context, emailContent, emailID string) (*model.AnalysisResult, error)
}

// Client issues one JSON POST per operation. It keeps no state between
// calls and never retries.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *log.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithToken sets a bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the service rooted at baseURL
// (e.g. http://localhost:3000).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reword asks the service to rewrite selectedText following
// toneInstructions and returns the rewritten text.
func (c *Client) Reword(
	ctx context.Context,
	selectedText, toneInstructions string,
) (string, error) {
	req := rewordRequest{
		SelectedText:     selectedText,
		ToneInstructions: toneInstructions,
	}

	var resp rewordResponse
	if err := c.post(ctx, model.OperationReword, rewordPath, req, &resp); err != nil {
		return "", err
	}

	return resp.RewordingText, nil
}

// Compose asks the service to write an email from composeContext. Both
// observed response shapes are accepted; the first present field wins.
func (c *Client) Compose(
	ctx context.Context,
	composeContext string,
) (string, error) {
	req := composeRequest{Context: composeContext}

	var resp composeResponse
	if err := c.post(ctx, model.OperationCompose, composePath, req, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// AnalyzeEmail sends the open message body for analysis.
func (c *Client) AnalyzeEmail(
	ctx context.Context,
	emailContent, emailID string,
) (*model.AnalysisResult, error) {
	req := analyzeRequest{
		EmailContent: emailContent,
		EmailID:      emailID,
	}

	var result model.AnalysisResult
	if err := c.post(ctx, model.OperationAnalyze, analyzePath, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// post marshals body, sends it to path and decodes a 2xx JSON response
// into result. Any failure comes back as a *RequestError.
func (c *Client) post(
	ctx context.Context,
	op model.OperationKind,
	path string,
	body interface{},
	result interface{},
) error {
	start := time.Now()

	data, err := json.Marshal(body)
	if err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data),
	)
	if err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "op", op, "path", path, "error", err)
		return &RequestError{Op: op, Err: fmt.Errorf("calling %s: %w", path, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("reading response: %w", err),
		}
	}

	c.logger.Debug("request done",
		"op", op,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet(respBody)),
		}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return &RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decoding response: %w", err),
		}
	}

	return nil
}

const snippetLimit = 200

// snippet shortens a response body for error messages.
func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if utf8.RuneCountInString(s) > snippetLimit {
		return string([]rune(s)[:snippetLimit]) + "…"
	}
	return s
}

// --- wire types ---

type rewordRequest struct {
	SelectedText     string `json:"selectedText"`
	ToneInstructions string `json:"toneInstructions"`
}

type rewordResponse struct {
	Success          bool   `json:"success"`
	RewordingText    string `json:"rewording_text"`
	OriginalText     string `json:"original_text"`
	ToneInstructions string `json:"tone_instructions"`
}

type composeRequest struct {
	Context string `json:"context"`
}

type composeResponse struct {
	ComposedEmail           *string `json:"composedEmail"`
	Success                 bool    `json:"success"`
	ComposedEmailSnake      *string `json:"composed_email"`
	CompositionInstructions string  `json:"composition_instructions"`
}

// text returns whichever composed-email field the service filled in.
func (r composeResponse) text() string {
	if r.ComposedEmail != nil {
		return *r.ComposedEmail
	}
	if r.ComposedEmailSnake != nil {
		return *r.ComposedEmailSnake
	}
	return ""
}

type analyzeRequest struct {
	EmailContent string `json:"emailContent"`
	EmailID      string `json:"emailId"`
}
