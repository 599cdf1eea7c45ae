package narrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thushan/narrador/internal/core/constants"
	"github.com/thushan/narrador/internal/core/domain"
	"github.com/thushan/narrador/internal/core/ports"
	"github.com/thushan/narrador/internal/logger"
)

type Config struct {
	Credential     string
	SystemPrompt   string
	FallbackModels []string
	Temperature    float64
	MaxTokens      int
}

// Service walks the candidate list (current selection first, then the fixed
// fallbacks) one attempt at a time until a model answers.
type Service struct {
	transport ports.Transport
	stats     ports.NarrationRecorder
	selection *ModelSelection
	logger    logger.StyledLogger

	credential   string
	systemPrompt string
	fallbacks    []string
	temperature  float64
	maxTokens    int
}

func NewService(cfg Config, selection *ModelSelection, transport ports.Transport, stats ports.NarrationRecorder, log logger.StyledLogger) *Service {
	fallbacks := make([]string, 0, len(cfg.FallbackModels))
	for _, m := range cfg.FallbackModels {
		if m = strings.TrimSpace(m); m != "" {
			fallbacks = append(fallbacks, m)
		}
	}

	systemPrompt := cfg.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = constants.NarratorSystemPrompt
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = constants.DefaultTemperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = constants.DefaultMaxTokens
	}

	return &Service{
		transport:    transport,
		stats:        stats,
		selection:    selection,
		logger:       log,
		credential:   strings.TrimSpace(cfg.Credential),
		systemPrompt: systemPrompt,
		fallbacks:    fallbacks,
		temperature:  temperature,
		maxTokens:    maxTokens,
	}
}

// Narrate returns the first successful completion across the candidates. Only
// a missing credential is reported as an error; exhaustion comes back as a
// result with OK false and a diagnostic in Text.
func (s *Service) Narrate(ctx context.Context, text string) (domain.NarrationResult, error) {
	if s.credential == "" {
		return domain.NarrationResult{}, domain.ErrMissingCredential
	}

	// attempts run to their own deadline even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	chat := domain.ChatRequest{
		System:      s.systemPrompt,
		User:        text,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}

	start := time.Now()
	candidates := s.Candidates()

	var lastErr *domain.AttemptError
	attempts := 0

	for _, model := range candidates {
		attempts++
		outcome := s.transport.Attempt(ctx, domain.AttemptRequest{
			Model:      model,
			Credential: s.credential,
			Chat:       chat,
		})
		if s.stats != nil {
			s.stats.RecordAttempt(outcome)
		}

		if outcome.Succeeded() {
			result := domain.NarrationResult{
				OK:       true,
				Model:    model,
				Text:     outcome.Text,
				Attempts: attempts,
				Latency:  time.Since(start),
			}
			if attempts > 1 {
				s.logger.InfoWithModel("Narration answered by fallback", model, "attempts", attempts)
			}
			s.record(result)
			return result, nil
		}

		lastErr = outcome.Failure
		if attempts < len(candidates) {
			s.logger.Debug("Trying next candidate", "failed", model, "classification", string(outcome.Classification()))
		}
	}

	result := domain.NarrationResult{
		OK:       false,
		Text:     Diagnostic(lastErr.Message),
		Attempts: attempts,
		Latency:  time.Since(start),
	}
	s.logger.Warn("All candidates failed", "attempts", attempts, "last_error", lastErr.Message)
	s.record(result)
	return result, nil
}

func (s *Service) record(result domain.NarrationResult) {
	if s.stats != nil {
		s.stats.RecordNarration(result)
	}
}

// Candidates is the order a narration made right now would try, with the
// current selection always first. Duplicates are kept.
func (s *Service) Candidates() []string {
	candidates := make([]string, 0, len(s.fallbacks)+1)
	candidates = append(candidates, s.selection.Get())
	return append(candidates, s.fallbacks...)
}

func (s *Service) Model() string {
	return s.selection.Get()
}

func (s *Service) SetModel(name string) (string, error) {
	previous, err := s.selection.Set(name)
	if err != nil {
		return previous, err
	}
	s.logger.InfoModelChange(previous, s.selection.Get())
	return previous, nil
}

func (s *Service) FallbackModels() []string {
	out := make([]string, len(s.fallbacks))
	copy(out, s.fallbacks)
	return out
}

// Diagnostic renders the user-facing exhaustion message with the last
// failure embedded verbatim.
func Diagnostic(lastMessage string) string {
	msg := lastMessage
	if msg == "" {
		msg = constants.UnknownErrorMessage
	}
	return fmt.Sprintf("%s\n%s\n"+constants.ExhaustedErrorFmt,
		constants.ExhaustedHeadline, constants.ExhaustedCause, msg)
}
