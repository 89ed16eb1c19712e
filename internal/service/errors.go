package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/lessonsmith/internal/phrase"
)

// ErrInvalidInput is wrapped by every validation failure of user input.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ConfigurationError reports a lesson whose domain has no phrase library
// entry while the rebuild runs in strict mode.
type ConfigurationError struct {
	Domain string
	Path   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: no phrase library entry for domain %q (lesson %s)", e.Domain, e.Path)
}

func (e *ConfigurationError) Unwrap() error {
	return phrase.ErrUnknownDomain
}
