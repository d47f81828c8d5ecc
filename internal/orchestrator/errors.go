package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/tonal/internal/observability"
)

// ErrAllProvidersFailed is matched by AllProvidersFailedError.
var ErrAllProvidersFailed = errors.New("all providers failed")

// Attempt records one provider that failed to serve a request.
type Attempt struct {
	Provider string
	Stage    observability.Stage
	Err      error
}

// AllProvidersFailedError is returned when no provider produced a palette.
type AllProvidersFailedError struct {
	Attempts []Attempt
}

// Error returns the error message.
func (e *AllProvidersFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all providers failed: no providers configured"
	}
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s (%s): %v", a.Provider, a.Stage, a.Err)
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrAllProvidersFailed.
func (e *AllProvidersFailedError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

// Unwrap returns the last provider error.
func (e *AllProvidersFailedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}
