package payments

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount or price provided")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrMissingField         = errors.New("missing required field")
	ErrProcessor            = errors.New("payment processor error")
	ErrPartialFailure       = errors.New("payment processor partial failure")
)

const (
	ErrorTypeInvalidAmount  = "invalid_amount"
	ErrorTypeInvalidMethod  = "invalid_payment_method"
	ErrorTypeMissingField   = "missing_field"
	ErrorTypeInvalidRequest = "invalid_request"
	ErrorTypeConnection     = "api_connection_error"
	ErrorTypeGeneral        = "general_error"
)

const connectionErrorMessage = "could not reach the payment processor"

// ProcessorError is a rejection returned by the payment processor API.
type ProcessorError struct {
	StatusCode  int
	Type        string
	Code        string
	DeclineCode string
	Param       string
	Message     string
}

func (e *ProcessorError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

func (e *ProcessorError) Unwrap() error { return ErrProcessor }

// PartialFailureError reports a second workflow step failing after the first one
// created a resource on the processor side. Nothing is rolled back.
type PartialFailureError struct {
	Step       string
	ResourceID string
	Err        error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s failed after creating %s: %v", e.Step, e.ResourceID, e.Err)
}

func (e *PartialFailureError) Unwrap() []error { return []error{ErrPartialFailure, e.Err} }

func missingField(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// ErrorType returns the tag reported to the client next to the error message.
func ErrorType(err error) string {
	var pe *ProcessorError
	if errors.As(err, &pe) {
		if pe.Type != "" {
			return pe.Type
		}
		return ErrorTypeGeneral
	}

	switch {
	case errors.Is(err, ErrProcessor):
		return ErrorTypeConnection
	case errors.Is(err, ErrInvalidAmount):
		return ErrorTypeInvalidAmount
	case errors.Is(err, ErrInvalidPaymentMethod):
		return ErrorTypeInvalidMethod
	case errors.Is(err, ErrMissingField):
		return ErrorTypeMissingField
	default:
		return ErrorTypeGeneral
	}
}

// ErrorMessage is the human readable text sent back for a failed outcome. Processor
// rejections keep the processor's own wording; transport failures stay generic so
// outbound URLs never reach the client.
func ErrorMessage(err error) string {
	var pe *ProcessorError
	if errors.As(err, &pe) {
		if pe.Message != "" {
			return pe.Message
		}
		return err.Error()
	}
	if errors.Is(err, ErrProcessor) {
		return connectionErrorMessage
	}
	return err.Error()
}
