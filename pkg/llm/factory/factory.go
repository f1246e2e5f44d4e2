package factory

import (
	"fmt"

	"jewel-backoffice-be/pkg/llm"
	"jewel-backoffice-be/pkg/llm/groq"
)

// NewLLMProvider builds a rate-limit-aware provider for the given backend.
func NewLLMProvider(providerType, apiKey, modelName, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "groq", "":
		if apiKey == "" {
			return nil, fmt.Errorf("groq provider requires an api key")
		}
		p := groq.NewGroqProvider(apiKey, baseURL, modelName)
		return llm.WithRetry(p, llm.DefaultRetryConfig()), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
