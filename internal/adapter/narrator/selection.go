package narrator

import (
	"strings"
	"sync/atomic"

	"github.com/thushan/narrador/internal/core/domain"
)

// ModelSelection is the process-wide current model cell. Readers take one
// snapshot per call, writers replace it whole; last writer wins.
type ModelSelection struct {
	current atomic.Pointer[string]
}

func NewModelSelection(initial string) *ModelSelection {
	s := &ModelSelection{}
	initial = strings.TrimSpace(initial)
	s.current.Store(&initial)
	return s
}

func (s *ModelSelection) Get() string {
	return *s.current.Load()
}

// Set trims name and stores it, returning the previous value. Blank names
// are rejected and leave the selection as it was.
func (s *ModelSelection) Set(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.Get(), domain.ErrEmptyModelName
	}
	previous := s.current.Swap(&name)
	return *previous, nil
}
