// Package real implements the chat client backed by the OpenRouter chat-completions API.
package real

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-resume-screener/internal/config"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	obsctx "github.com/fairyhunter13/ai-resume-screener/internal/observability"
)

// Client implements domain.ChatClient. It never retries: one Complete is one HTTP call.
type Client struct {
	cfg    config.ChatConfig
	chatHC *http.Client
	tokens *tokencount.Counter
}

// New constructs a chat client with the configured per-call timeout.
func New(cfg config.ChatConfig) *Client {
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "openrouter " + r.URL.Path
		}),
	)
	return &Client{
		cfg:    cfg,
		chatHC: &http.Client{Timeout: cfg.Timeout, Transport: transport},
		tokens: tokencount.DefaultCounter,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Complete sends one chat completion authorised by cred and returns the message content.
func (c *Client) Complete(ctx domain.Context, cred domain.Credential, req domain.ChatRequest) (string, error) {
	lg := obsctx.LoggerFromContext(ctx)
	if strings.TrimSpace(cred.Token) == "" {
		return "", fmt.Errorf("op=openrouter.Complete: %w: empty credential", domain.ErrCredentialRejected)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.cfg.MaxTokens
	}
	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature:    c.cfg.Temperature,
		MaxTokens:      maxTokens,
		ResponseFormat: map[string]string{"type": "json_object"},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("op=openrouter.Complete: %w", err)
	}
	if n, err := c.tokens.CountChatTokens(req.SystemPrompt, req.UserPrompt, c.cfg.Model); err == nil {
		observability.ObservePromptTokens(req.Operation, n)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("op=openrouter.Complete: %w", err)
	}
	r.Header.Set("Authorization", "Bearer "+cred.Token)
	r.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		r.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		r.Header.Set("X-Title", c.cfg.Title)
	}

	start := time.Now()
	resp, err := c.chatHC.Do(r)
	if err != nil {
		lg.Warn("chat request failed", slog.String("operation", req.Operation), slog.Int("credential", cred.Index), slog.Duration("elapsed", time.Since(start)), slog.Any("error", err))
		return "", fmt.Errorf("op=openrouter.Complete: %w", classifyTransportError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("op=openrouter.Complete: %w", classifyTransportError(err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snip := string(bodyBytes)
		if len(snip) > 512 {
			snip = snip[:512]
		}
		lg.Warn("chat provider non-2xx",
			slog.String("operation", req.Operation),
			slog.Int("status", resp.StatusCode),
			slog.Int("credential", cred.Index),
			slog.String("x_request_id", resp.Header.Get("X-Request-Id")),
			slog.String("body", snip))
		return "", fmt.Errorf("op=openrouter.Complete: %w", ClassifyStatus(resp.StatusCode, snip))
	}

	var out chatResponse
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return "", fmt.Errorf("op=openrouter.Complete: %w: decode: %v", domain.ErrSchemaInvalid, err)
	}
	// OpenRouter can return 200 with an error object when the upstream provider fails.
	if out.Error != nil {
		return "", fmt.Errorf("op=openrouter.Complete: %w", ClassifyStatus(http.StatusBadGateway, out.Error.Message))
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("op=openrouter.Complete: %w: empty choices", domain.ErrSchemaInvalid)
	}
	lg.Debug("chat completed",
		slog.String("operation", req.Operation),
		slog.String("model", out.Model),
		slog.Int("credential", cred.Index),
		slog.Duration("elapsed", time.Since(start)))
	return out.Choices[0].Message.Content, nil
}

// credentialMarker matches billing and auth wording in error bodies. A bare 402
// must stand alone so request ids and token counts that contain it do not match.
var credentialMarker = regexp.MustCompile(`(?i)\b(credits|authentication|quota|unauthorized|invalid api key)\b|(?:^|[^\w-])(402)(?:[^\w-]|$)`)

// ClassifyStatus maps an upstream status and body to the domain error taxonomy.
// Auth and billing failures are credential-level; 429 is rate limiting; the rest is internal.
func ClassifyStatus(status int, body string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusPaymentRequired || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", domain.ErrCredentialRejected, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", domain.ErrUpstreamRateLimit, status)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", domain.ErrUpstreamTimeout, status)
	}
	if m := credentialMarker.FindStringSubmatch(body); m != nil {
		return fmt.Errorf("%w: status %d: %s", domain.ErrCredentialRejected, status, strings.ToLower(m[1]+m[2]))
	}
	if status >= 400 && status < 500 {
		return fmt.Errorf("%w: status %d", domain.ErrInvalidArgument, status)
	}
	return fmt.Errorf("%w: status %d", domain.ErrInternal, status)
}

func classifyTransportError(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrInternal, err)
}
