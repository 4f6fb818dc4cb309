package domain

import (
	"errors"
	"fmt"
)

// ErrPortNotFound is returned when an input port index is out of range.
var ErrPortNotFound = errors.New("port not found")

// ErrInvalidArgument is returned when an output port index is out of range.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrAllocation marks a failed allocation inside a module execution.
var ErrAllocation = errors.New("allocation failure")

// ErrUnsupportedValue is returned when a Go value has no Value variant.
var ErrUnsupportedValue = errors.New("unsupported state value")

// ErrSnapshotNotFound is returned when a state snapshot cannot be found in the store.
var ErrSnapshotNotFound = errors.New("state snapshot not found")

// ErrModuleNotFound is returned when a module instance or description is unknown.
var ErrModuleNotFound = errors.New("module not found")

// Categories used by the built-in modules for ExecutionError.
const (
	CategoryNoData            = "NoData"
	CategoryDimensionMismatch = "DimensionMismatch"
	CategoryInvalidState      = "InvalidState"
	CategoryWrongDatatype     = "WrongDatatype"
	CategoryAlgorithm         = "AlgorithmError"
)

// ExecutionError is a categorized failure raised by module logic.
// It is the domain-level failure kind logged by the execution supervisor.
type ExecutionError struct {
	Category string // e.g. "NoData", "DimensionMismatch"
	Message  string
	Err      error // Optional cause
}

// NewExecutionError builds an ExecutionError with a formatted message.
func NewExecutionError(category, format string, args ...any) *ExecutionError {
	return &ExecutionError{Category: category, Message: fmt.Sprintf(format, args...)}
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
