// Package tokencount counts and bounds prompt tokens.
//
// It uses tiktoken-go with the offline BPE loader so counting never needs
// network access. Resume and job texts are truncated to a token budget
// before they are embedded in stage prompts.
package tokencount

import (
	"log/slog"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// Counter provides thread-safe token counting for chat models.
type Counter struct {
	encodingCache map[string]*tiktoken.Tiktoken
	mu            sync.RWMutex
}

// NewCounter creates a new token counter instance.
func NewCounter() *Counter {
	return &Counter{encodingCache: make(map[string]*tiktoken.Tiktoken)}
}

// DefaultCounter is shared by chat clients for prompt size estimates.
var DefaultCounter = NewCounter()

func (c *Counter) encodingFor(model string) (*tiktoken.Tiktoken, error) {
	name := normalizeModelName(model)

	c.mu.RLock()
	if enc, ok := c.encodingCache[name]; ok {
		c.mu.RUnlock()
		return enc, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.encodingCache[name]; ok {
		return enc, nil
	}
	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		slog.Debug("falling back to cl100k_base encoding", slog.String("model", model), slog.Any("error", err))
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	c.encodingCache[name] = enc
	return enc, nil
}

// normalizeModelName converts OpenRouter model IDs to tiktoken names.
// Non-OpenAI families are approximated with the gpt-4 encoding.
func normalizeModelName(model string) string {
	model = strings.ToLower(model)
	if i := strings.LastIndexByte(model, '/'); i >= 0 {
		model = model[i+1:]
	}
	model = strings.TrimSuffix(model, ":free")
	if strings.Contains(model, "gpt-3.5") {
		return "gpt-3.5-turbo"
	}
	return "gpt-4"
}

// CountTokens counts the tokens of text for model.
func (c *Counter) CountTokens(text, model string) (int, error) {
	enc, err := c.encodingFor(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CountChatTokens counts tokens for a two-message chat request including
// per-message overhead of OpenAI-compatible APIs.
func (c *Counter) CountChatTokens(systemPrompt, userPrompt, model string) (int, error) {
	enc, err := c.encodingFor(model)
	if err != nil {
		return 0, err
	}
	const perMessage, perRole, replyPrimer = 3, 1, 3
	n := replyPrimer
	for _, m := range [][2]string{{"system", systemPrompt}, {"user", userPrompt}} {
		n += perMessage + perRole
		n += len(enc.Encode(m[0], nil, nil))
		n += len(enc.Encode(m[1], nil, nil))
	}
	return n, nil
}

// Truncate returns text cut to at most maxTokens tokens and whether it was cut.
// A non-positive budget disables truncation. When the encoding cannot be
// loaded, a four-characters-per-token estimate is used.
func (c *Counter) Truncate(text, model string, maxTokens int) (string, bool) {
	if maxTokens <= 0 || text == "" {
		return text, false
	}
	enc, err := c.encodingFor(model)
	if err != nil {
		limit := maxTokens * 4
		if len(text) <= limit {
			return text, false
		}
		return text[:limit], true
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text, false
	}
	return enc.Decode(tokens[:maxTokens]), true
}
