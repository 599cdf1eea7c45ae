package constants

import "time"

// OpenRouter wire details
const (
	DefaultProviderBaseURL = "https://openrouter.ai/api/v1"
	ChatCompletionsPath    = "/chat/completions"

	HeaderAuthorization = "Authorization"
	HeaderReferer       = "HTTP-Referer"
	HeaderTitle         = "X-Title"
	BearerPrefix        = "Bearer "

	DefaultReferer = "https://seuapp.azurewebsites.net"
	DefaultTitle   = "Bot RPG Discord"

	// DefaultAttemptTimeout bounds one request/response cycle
	DefaultAttemptTimeout = 25 * time.Second

	// MaxResponseBodyBytes caps how much of a provider reply is read
	MaxResponseBodyBytes = 4 << 20

	// MaxLoggedPayloadBytes caps the response snippet written to logs
	MaxLoggedPayloadBytes = 2048
)

// Model defaults: a light free model first, then free fallbacks
const DefaultModel = "meta-llama/llama-3.2-3b-instruct:free"

var DefaultFallbackModels = []string{
	"google/gemma-3-4b:free",
	"qwen/qwen3-4b:free",
	"liquid/lfm-2.5-1.2b-instruct:free",
}
