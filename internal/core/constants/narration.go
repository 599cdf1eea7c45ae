package constants

// Narration prompt and sampling defaults
const (
	NarratorSystemPrompt = "Você é um narrador de RPG para Discord. Responda em PT-BR, direto e vívido, sem enrolar."

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 220
)

// User-facing failure texts (pt-BR, shown in chat)
const (
	ExhaustedHeadline = "❌ IA não respondeu."
	ExhaustedCause    = "Motivo provável: **saldo 0**, limite, ou modelos indisponíveis."
	ExhaustedErrorFmt = "Erro: **%s**"

	TimeoutMessage       = "Timeout: a IA demorou demais."
	EmptyResponseMessage = "OpenRouter respondeu vazio (modelo ocupado/limitado)."
	UnknownErrorMessage  = "Erro desconhecido"

	NarrateUsage = "Use: !narrar <texto>"
)
