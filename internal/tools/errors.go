package tools

import "errors"

// Builder registry errors.
var (
	// ErrBuilderNotFound is returned when no builder matches a step's tool.
	ErrBuilderNotFound = errors.New("tool builder not found")

	// ErrBuilderNameEmpty is returned when a builder has no name.
	ErrBuilderNameEmpty = errors.New("tool builder name cannot be empty")

	// ErrBuilderAlreadyRegistered is returned when registering a duplicate.
	ErrBuilderAlreadyRegistered = errors.New("tool builder already registered")
)
