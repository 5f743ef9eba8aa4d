package config

import (
	"errors"
	"fmt"
)

// ErrUnresolvedPlaceholder is returned when a command template still
// contains a required placeholder after substitution.
var ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")

// Error is a configuration error: the recipe or a command template is wrong
// and the run must not start.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}
