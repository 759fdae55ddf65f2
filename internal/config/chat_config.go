package config

import "time"

// ChatConfig holds the settings of the chat-completions client.
type ChatConfig struct {
	BaseURL     string
	Model       string
	Referer     string
	Title       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// GetChatConfig returns the chat client settings.
func (c Config) GetChatConfig() ChatConfig {
	return ChatConfig{
		BaseURL:     c.OpenRouterBaseURL,
		Model:       c.OpenRouterModel,
		Referer:     c.OpenRouterReferer,
		Title:       c.OpenRouterTitle,
		Temperature: c.AITemperature,
		MaxTokens:   c.AIMaxTokens,
		Timeout:     c.AITimeout,
	}
}
