package llm

import (
	"os"
)

// EnvConfig names the environment variables that carry the generation
// backend's settings, so suite documents never embed credentials directly.
type EnvConfig struct {
	Env *EnvKeys `json:"env,omitempty"`
}

type EnvKeys struct {
	BaseUrlKey   string `json:"baseUrlKey"`
	ApiKeyKey    string `json:"apiKeyKey"`
	ModelNameKey string `json:"modelNameKey"`
}

func (cfg *EnvConfig) BaseUrl() string {
	if cfg == nil || cfg.Env == nil {
		return ""
	}
	return os.Getenv(cfg.Env.BaseUrlKey)
}

func (cfg *EnvConfig) ApiKey() string {
	if cfg == nil || cfg.Env == nil {
		return ""
	}
	return os.Getenv(cfg.Env.ApiKeyKey)
}

func (cfg *EnvConfig) ModelName() string {
	if cfg == nil || cfg.Env == nil {
		return ""
	}
	return os.Getenv(cfg.Env.ModelNameKey)
}

// NewClient returns the most capable configured client, defaulting to the
// no-op echo client when no credentials resolve.
func NewClient(cfg *EnvConfig) (Client, error) {
	if cfg == nil || cfg.Env == nil {
		return NoopClient{}, nil
	}

	apiKey := cfg.ApiKey()
	baseURL := cfg.BaseUrl()
	if apiKey == "" || baseURL == "" {
		return NoopClient{}, nil
	}

	return NewOpenAIClient(baseURL, apiKey, cfg.ModelName())
}
