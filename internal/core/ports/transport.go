package ports

import (
	"context"

	"github.com/thushan/narrador/internal/core/domain"
)

// Transport performs exactly one request/response cycle against the provider.
// It never retries and never returns a Go error: every failure is folded into
// the outcome's AttemptError.
type Transport interface {
	Attempt(ctx context.Context, req domain.AttemptRequest) domain.AttemptOutcome
}
