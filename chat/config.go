package chat

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kbukum/wispchat/httpclient"
	"github.com/kbukum/wispchat/logger"
	"github.com/kbukum/wispchat/resilience"
)

// API flavors. Azure deployments address the model through the URL path
// and authenticate with an api-key header instead of a bearer token.
const (
	APITypeOpenAI = "openai"
	APITypeAzure  = "azure"
)

const (
	defaultBaseURL    = "https://api.openai.com"
	defaultModel      = "gpt-3.5-turbo"
	defaultTimeout    = 120 * time.Second
	defaultAPIVersion = "2023-05-15"
)

// Config holds configuration for creating a chat client.
// It is read-only for the client's lifetime; the prompt-override stack is
// the only mutable client state.
type Config struct {
	// Model is the model sent with every completion request.
	Model string `json:"model"`

	// APIKey authenticates against the API via a bearer token.
	APIKey string `json:"-"`

	// BaseURL is the API base URL. Defaults to the OpenAI endpoint.
	BaseURL string `json:"base_url"`

	// APIType selects the API flavor: APITypeOpenAI (default) or
	// APITypeAzure.
	APIType string `json:"api_type"`

	// APIVersion is the api-version query parameter for Azure requests.
	// Ignored for the OpenAI flavor.
	APIVersion string `json:"api_version"`

	// SystemPrompt is the default system prompt. Scoped and per-call
	// overrides take precedence over it.
	SystemPrompt string `json:"system_prompt"`

	// EnableLogging turns on structured logging of attempts and calls.
	EnableLogging bool `json:"enable_logging"`

	// Timeout for non-streaming HTTP requests. Defaults to 120s.
	Timeout time.Duration `json:"timeout"`

	// Headers are additional HTTP headers sent with every request.
	Headers map[string]string `json:"headers"`

	// Retry configures retry behavior for transient failures.
	// Defaults to 3 attempts with exponential backoff and jitter.
	Retry *resilience.RetryConfig `json:"-"`

	// Log configures the logger used when EnableLogging is set.
	Log *logger.Config `json:"-"`
}

// applyDefaults sets default values for unset config fields.
func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.APIType == "" {
		c.APIType = APITypeOpenAI
	}
	if c.APIType == APITypeAzure && c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.Retry == nil {
		c.Retry = httpclient.DefaultRetryConfig()
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("chat: API key is required")
	}
	if c.APIType != APITypeOpenAI && c.APIType != APITypeAzure {
		return fmt.Errorf("chat: unknown API type %q", c.APIType)
	}
	return nil
}

// ConfigFromEnv builds a Config from environment variables, loading a
// .env file from the working directory when one exists.
//
// Recognized variables: OPENAI_API_KEY, OPENAI_API_BASE, OPENAI_API_TYPE,
// OPENAI_API_VERSION, WISPCHAT_MODEL, WISPCHAT_SYSTEM_PROMPT,
// WISPCHAT_LOGGING.
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	return Config{
		APIKey:        os.Getenv("OPENAI_API_KEY"),
		BaseURL:       os.Getenv("OPENAI_API_BASE"),
		APIType:       os.Getenv("OPENAI_API_TYPE"),
		APIVersion:    os.Getenv("OPENAI_API_VERSION"),
		Model:         os.Getenv("WISPCHAT_MODEL"),
		SystemPrompt:  os.Getenv("WISPCHAT_SYSTEM_PROMPT"),
		EnableLogging: os.Getenv("WISPCHAT_LOGGING") == "true",
	}
}
