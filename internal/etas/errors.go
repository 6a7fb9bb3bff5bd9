package etas

import (
	"errors"
	"fmt"
)

// ParamError represents a rejected simulation request.
//
// All validation happens eagerly, before the first variate is drawn. Once a
// parameter set passes validation the samplers are total functions, so no
// later failure path exists and output buffers are either filled completely
// or left untouched.
type ParamError struct {
	// Code identifies the error category.
	Code ParamErrorCode

	// Field names the offending input, when one input is to blame.
	Field string

	// Message is a human-readable description.
	Message string
}

// ParamErrorCode categorizes parameter errors.
type ParamErrorCode string

const (
	// ErrCodeInvalidParameter indicates a process parameter outside its
	// admissible range (Mmin >= Mmax, p <= 1, branching ratio outside [0,1)).
	ErrCodeInvalidParameter ParamErrorCode = "INVALID_PARAMETER"

	// ErrCodeSizeMismatch indicates output buffers of different lengths.
	ErrCodeSizeMismatch ParamErrorCode = "SIZE_MISMATCH"
)

// Error implements the error interface.
func (e *ParamError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidParameter returns true if the error is a parameter range error.
// Uses errors.As to handle wrapped errors.
func IsInvalidParameter(err error) bool {
	var pe *ParamError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeInvalidParameter
	}
	return false
}

// IsSizeMismatch returns true if the error is an output size mismatch.
// Uses errors.As to handle wrapped errors.
func IsSizeMismatch(err error) bool {
	var pe *ParamError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeSizeMismatch
	}
	return false
}

// newInvalidParameter creates a ParamError for an out-of-range input.
func newInvalidParameter(field, message string) *ParamError {
	return &ParamError{
		Code:    ErrCodeInvalidParameter,
		Field:   field,
		Message: message,
	}
}

// newSizeMismatch creates a ParamError for unequal output buffers.
func newSizeMismatch(nMags, nTimes int) *ParamError {
	return &ParamError{
		Code:    ErrCodeSizeMismatch,
		Message: fmt.Sprintf("magnitude and time buffers differ in length (%d != %d)", nMags, nTimes),
	}
}
