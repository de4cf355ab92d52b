package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL   = "http://localhost:4000/api"
	defaultUserAgent = "cineconnect-cli"
	maxPayloadBytes  = 4 << 20
	errorSnippetN    = 8 << 10
)

var (
	// ErrUnauthorized marks a 401: the token is missing, expired or revoked.
	ErrUnauthorized = errors.New("session expired, please log in again")
	// ErrUnreachable wraps transport failures (DNS, refused, reset).
	ErrUnreachable = errors.New("cannot reach the Cine Connect server")
)

// TokenSource yields the bearer token for the current session, or "".
type TokenSource interface {
	Token() string
}

// Client wraps HTTP access to the Cine Connect REST API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	tokens         TokenSource
	onUnauthorized func()
	log            logrus.FieldLogger
}

// APIError is returned when the API answers with a non-2xx status or with
// an envelope whose success flag is false. Message is the server's own
// text and is meant to be shown to the user as is.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "cineconnect api error"
	}
	detail := e.Message
	if detail == "" {
		detail = e.Body
	}
	if e.Status == "" {
		return fmt.Sprintf("cineconnect api error: %s", detail)
	}
	return fmt.Sprintf("cineconnect api error: %s: %s", e.Status, detail)
}

func (e *APIError) Unwrap() error {
	if e != nil && e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict reports whether the API rejected the request with a 409.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// IsForbidden reports whether the API refused the request with a 403.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsUnauthorized reports whether the request failed for lack of a valid session.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// UserMessage turns err into text for the user. Server messages are
// returned unmodified.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized.Error()
		}
		if apiErr.Status != "" {
			return fmt.Sprintf("request failed: %s", apiErr.Status)
		}
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "the server took too long to respond, try again"
	case errors.Is(err, ErrUnreachable):
		return ErrUnreachable.Error() + ", check your connection and try again"
	}
	return err.Error()
}

// Option customizes a Client.
type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) { c.tokens = tokens }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a new API client. If httpClient is nil, a default client is used.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	c := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		log:        discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource binds the session after construction; the session itself
// needs a client to validate its token.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// SetUnauthorizedHandler registers fn to run whenever the API answers 401.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the API root, e.g. http://localhost:4000/api.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ServerURL returns the server root without the /api suffix.
func (c *Client) ServerURL() string {
	return strings.TrimSuffix(c.baseURL, "/api")
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	endpoint := c.endpoint(path, query)
	res, err := c.send(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, maxPayloadBytes))
	if err != nil {
		return fmt.Errorf("read response from %s: %w", endpoint, err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return c.apiError(res, endpoint, payload)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	if !env.Success {
		message := env.Message
		if message == "" {
			message = env.Error
		}
		return &APIError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Endpoint:   endpoint,
			Message:    message,
			Body:       snippet(payload),
		}
	}
	if out == nil || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

// stream copies a non-envelope body (reports, receipts) into w.
func (c *Client) stream(ctx context.Context, path string, query url.Values, w io.Writer) (int64, error) {
	endpoint := c.endpoint(path, query)
	res, err := c.send(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, errorSnippetN))
		return 0, c.apiError(res, endpoint, payload)
	}
	n, err := io.Copy(w, res.Body)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", endpoint, err)
	}
	return n, nil
}

func (c *Client) send(ctx context.Context, method string, endpoint string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	res, err := c.httpClient.Do(req)
	entry := c.log.WithFields(logrus.Fields{
		"method":     method,
		"endpoint":   endpoint,
		"request_id": requestID,
		"elapsed":    time.Since(started).Round(time.Millisecond),
	})
	if err != nil {
		entry.WithError(err).Warn("api request failed")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("request failed: %w", ctxErr)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	entry.WithField("status", res.StatusCode).Debug("api request")
	return res, nil
}

func (c *Client) apiError(res *http.Response, endpoint string, payload []byte) error {
	if res.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return &APIError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Endpoint:   endpoint,
		Message:    messageFromBody(payload),
		Body:       snippet(payload),
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	endpoint := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		endpoint = c.baseURL + path
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

// messageFromBody pulls the human message out of an error body. The
// backend is not consistent about the key it uses.
func messageFromBody(payload []byte) string {
	if !gjson.ValidBytes(payload) {
		return ""
	}
	for _, key := range []string{"message", "error", "error.message"} {
		if result := gjson.GetBytes(payload, key); result.Type == gjson.String {
			if text := strings.TrimSpace(result.String()); text != "" {
				return text
			}
		}
	}
	return ""
}

func snippet(payload []byte) string {
	if len(payload) > errorSnippetN {
		payload = payload[:errorSnippetN]
	}
	return strings.TrimSpace(string(payload))
}

func setIf(query url.Values, key string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		query.Set(key, trimmed)
	}
}

func setIntIf(query url.Values, key string, value int) {
	if value > 0 {
		query.Set(key, fmt.Sprint(value))
	}
}

func requireID(kind string, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s id is required", kind)
	}
	return nil
}
