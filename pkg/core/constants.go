package core

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidTime        = errors.New("invalid order time")
	ErrInvalidParticipant = errors.New("invalid participant code")
	ErrInvalidSecurity    = errors.New("invalid security name")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidSize        = errors.New("invalid size")
	ErrInvalidSide        = errors.New("invalid side")
	ErrNonFinitePrice     = errors.New("price is not a finite number")
	ErrOrderNotFound      = errors.New("order not found in book")
	ErrOrderExists        = errors.New("order exists")
	ErrWrongSecurity      = errors.New("order is for a different security")
)

// FieldMissingError reports a wire record with fewer than six fields. Field
// names the first absent field in record order.
type FieldMissingError struct {
	Field string
}

func (e *FieldMissingError) Error() string {
	return fmt.Sprintf("order record is missing field %q", e.Field)
}

// MalformedNumberError reports a numeric field that failed to parse.
type MalformedNumberError struct {
	Field string
	Value string
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("malformed number %q in field %q", e.Value, e.Field)
}

// InvalidDirectionError reports a direction token that is neither "BUY" nor
// "SELL".
type InvalidDirectionError struct {
	Value string
}

func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("invalid direction %q", e.Value)
}
