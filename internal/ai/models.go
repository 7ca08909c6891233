// README: Provider configuration and defaults.
package ai

// Supported providers.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderStatic = "static"
)

const (
	defaultGeminiModel = "gemini-2.0-flash"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	defaultOpenAIModel = "gpt-4o-mini"
	groqBaseURL        = "https://api.groq.com/openai/v1"

	// DefaultTemperature keeps itineraries varied but on-format.
	DefaultTemperature = 0.4
	DefaultMaxTokens   = 4096
)

// Config selects and configures a provider. Temperature and MaxTokens are
// fixed service configuration, never taken from end users. Zero is a valid
// temperature; only a negative value falls back to DefaultTemperature.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	// StaticReply is returned by the static provider.
	StaticReply string
}

func (c Config) withDefaults() Config {
	if c.Temperature < 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Model == "" {
		switch c.Provider {
		case ProviderGemini:
			c.Model = defaultGeminiModel
		case ProviderGroq:
			c.Model = defaultGroqModel
		case ProviderOpenAI:
			c.Model = defaultOpenAIModel
		}
	}
	if c.BaseURL == "" && c.Provider == ProviderGroq {
		c.BaseURL = groqBaseURL
	}
	return c
}

const systemPrompt = "You are a meticulous travel planner. Answer only with the requested day sections in Markdown."
