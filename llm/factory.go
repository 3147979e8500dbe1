package llm

import (
	"fmt"

	"github.com/uslanozan/asset-smith/config"
	"github.com/uslanozan/asset-smith/logger"
)

// NewChatModel config'deki sağlayıcıya göre yeni bir istemci kurar. Her agent isteğinde çağrılır.
func NewChatModel(cfg config.LLMConfig, log *logger.Logger) (ChatModel, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		temp := 0.0
		if cfg.Temperature != nil {
			temp = *cfg.Temperature
		}
		return NewOpenAIClient(OpenAIOptions{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.Model,
			Temperature: temp,
			MaxRetries:  cfg.MaxRetries,
			Timeout:     cfg.Timeout,
		}, log), nil
	case config.ProviderOllama:
		temp := DefaultOllamaTemperature
		if cfg.Temperature != nil {
			temp = *cfg.Temperature
		}
		return NewOllamaClient(OllamaOptions{
			BaseURL:     cfg.OllamaBaseURL,
			Model:       cfg.Model,
			Temperature: temp,
			MaxRetries:  cfg.MaxRetries,
			Timeout:     cfg.Timeout,
		}, log), nil
	default:
		return nil, fmt.Errorf("desteklenmeyen llm provider: %q", cfg.Provider)
	}
}
