package model

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrDegenerateWorld matches every DegenerateWorldError.
	ErrDegenerateWorld = errors.New("degenerate world")
)

// ConfigurationError reports a malformed configuration. It is returned before
// any simulation starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) succeed.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// DegenerateWorldError is returned when task placement exceeds its retry bound.
type DegenerateWorldError struct {
	TaskIndex int
	Attempts  int
}

func (e *DegenerateWorldError) Error() string {
	return fmt.Sprintf("degenerate world: task %d not placed after %d attempts", e.TaskIndex, e.Attempts)
}

// Is makes errors.Is(err, ErrDegenerateWorld) succeed.
func (e *DegenerateWorldError) Is(target error) bool { return target == ErrDegenerateWorld }
