package ports

import (
	"context"

	"github.com/thushan/narrador/internal/core/domain"
)

// Narrator is what the outer surfaces (HTTP, CLI) drive
type Narrator interface {
	// Narrate only returns an error for domain.ErrMissingCredential
	Narrate(ctx context.Context, text string) (domain.NarrationResult, error)

	Model() string
	SetModel(name string) (string, error)
	FallbackModels() []string
	Candidates() []string
}
