package acs

import (
	"errors"
	"fmt"
)

var (
	ErrEof              = errors.New("EOF")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInsufficientData = errors.New("insufficient data")
	ErrMalformedInput   = errors.New("malformed input")
	ErrDegenerateResult = errors.New("degenerate result")
)

// MalformedInputError reports a sample that could not be turned into a finite number.
// Position is 1-based and counts lines, records, rows or messages depending on the source.
type MalformedInputError struct {
	Position int
	Input    string
	Err      error
}

func (e *MalformedInputError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed input at position %d: %q", e.Position, e.Input)
	}
	return fmt.Sprintf("malformed input at position %d: %q: %v", e.Position, e.Input, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}
