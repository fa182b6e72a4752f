package shape

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload is matched by every *PayloadError.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrContractViolation is matched by every *ContractViolation.
	ErrContractViolation = errors.New("contract violation")
)

// PayloadError reports wire data that does not match the wrapper a shape
// expects for a field.
type PayloadError struct {
	Shape  string
	Field  string
	Reason string
	Err    error
}

func (e *PayloadError) Error() string {
	msg := "malformed payload"
	if e.Shape != "" {
		msg = "malformed " + e.Shape + " payload"
	}
	if e.Field != "" {
		msg += ": field " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PayloadError) Is(target error) bool { return target == ErrMalformedPayload }

func (e *PayloadError) Unwrap() error { return e.Err }

// ContractViolation is a programming error: building a wrapper the shape
// forbids. It is raised with panic and is not meant to be recovered.
type ContractViolation struct {
	Op     string
	Reason string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("shape: %s: %s", e.Op, e.Reason)
}

func (e *ContractViolation) Is(target error) bool { return target == ErrContractViolation }
