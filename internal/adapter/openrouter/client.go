package openrouter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/thushan/narrador/internal/core/constants"
	"github.com/thushan/narrador/internal/core/domain"
	"github.com/thushan/narrador/internal/logger"
	"github.com/thushan/narrador/internal/util"
	"github.com/thushan/narrador/pkg/pool"
)

var requestBuffers = pool.MustNew(func() *bytes.Buffer {
	return bytes.NewBuffer(make([]byte, 0, 1024))
})

type Config struct {
	BaseURL string
	Referer string
	Title   string
	Timeout time.Duration
}

// Client performs single chat-completion attempts against OpenRouter (or any
// gateway speaking the same wire format).
type Client struct {
	httpClient *http.Client
	logger     logger.StyledLogger
	endpoint   string
	referer    string
	title      string
	timeout    time.Duration
}

type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The attempt timeout is
// still enforced through the request context.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg Config, log logger.StyledLogger, opts ...Option) *Client {
	baseURL := util.NormaliseBaseURL(strings.TrimSpace(cfg.BaseURL))
	if baseURL == "" {
		baseURL = constants.DefaultProviderBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultAttemptTimeout
	}
	referer := strings.TrimSpace(cfg.Referer)
	if referer == "" {
		referer = constants.DefaultReferer
	}
	title := strings.TrimSpace(cfg.Title)
	if title == "" {
		title = constants.DefaultTitle
	}

	c := &Client{
		httpClient: &http.Client{},
		logger:     log,
		endpoint:   baseURL + constants.ChatCompletionsPath,
		referer:    referer,
		title:      title,
		timeout:    timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Attempt issues exactly one POST for one candidate. It never retries and
// folds every failure into the outcome.
func (c *Client) Attempt(ctx context.Context, req domain.AttemptRequest) domain.AttemptOutcome {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	outcome := c.attempt(ctx, req)
	outcome.Model = req.Model
	outcome.Latency = time.Since(start)
	return outcome
}

func (c *Client) attempt(ctx context.Context, req domain.AttemptRequest) domain.AttemptOutcome {
	payload := chatCompletionRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: domain.RoleSystem, Content: req.Chat.System},
			{Role: domain.RoleUser, Content: req.Chat.User},
		},
		Temperature: req.Chat.Temperature,
		MaxTokens:   req.Chat.MaxTokens,
	}
	buf := requestBuffers.Get()
	defer requestBuffers.Put(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return c.fail(req.Model, domain.ClassProviderError, 0,
			fmt.Sprintf("encode request: %v", err), err, nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return c.fail(req.Model, domain.ClassNetworkError, 0,
			fmt.Sprintf("build request: %v", err), err, nil)
	}
	httpReq.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+req.Credential)
	httpReq.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	httpReq.Header.Set(constants.HeaderReferer, c.referer)
	httpReq.Header.Set(constants.HeaderTitle, c.title)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.transportFailure(ctx, req.Model, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseBodyBytes))
	if err != nil {
		return c.transportFailure(ctx, req.Model, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(req.Model, classifyStatus(resp.StatusCode), resp.StatusCode,
			providerMessage(raw, resp.StatusCode), nil, raw)
	}

	content := gjson.GetBytes(raw, pathContent)
	if content.Type != gjson.String || strings.TrimSpace(content.String()) == "" {
		message := constants.EmptyResponseMessage
		if msg := gjson.GetBytes(raw, pathErrorMessage); msg.Type == gjson.String && msg.String() != "" {
			message = fmt.Sprintf("%s %s", message, msg.String())
		}
		return c.fail(req.Model, domain.ClassEmptyResponse, resp.StatusCode, message, nil, raw)
	}

	return domain.AttemptOutcome{Text: content.String()}
}

func (c *Client) transportFailure(ctx context.Context, model string, err error) domain.AttemptOutcome {
	if isTimeout(ctx, err) {
		return c.fail(model, domain.ClassTimeout, 0, constants.TimeoutMessage, err, nil)
	}
	if isConnectionError(err) {
		return c.fail(model, domain.ClassNetworkError, 0, fmt.Sprintf("network error: %v", err), err, nil)
	}
	return c.fail(model, domain.ClassNetworkError, 0, fmt.Sprintf("request failed: %v", err), err, nil)
}

func (c *Client) fail(model string, class domain.Classification, status int, message string, err error, raw []byte) domain.AttemptOutcome {
	c.logger.WarnWithContext("Attempt failed for", model, logger.LogContext{
		UserArgs: []any{
			"classification", string(class),
			"status", status,
			"error", message,
		},
		DetailedArgs: []any{
			"payload", snippet(raw),
		},
	})
	return domain.AttemptOutcome{
		Failure: domain.NewAttemptError(model, class, status, message, err),
	}
}

func snippet(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if len(raw) > constants.MaxLoggedPayloadBytes {
		return string(raw[:constants.MaxLoggedPayloadBytes]) + "..."
	}
	return string(raw)
}
