// Package errors provides unified error handling for the iteration toolkit.
// It implements structured error types with error codes, cause chaining,
// and retryable detection so outer layers can decide whether to re-drive
// a failed producer.
package errors

import (
	stderrors "errors"
	"fmt"
)

// IterError is the unified toolkit error type.
type IterError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if re-driving the producer may succeed.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *IterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *IterError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *IterError) WithCause(cause error) *IterError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *IterError) WithDetails(details map[string]any) *IterError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *IterError) WithDetail(key string, value any) *IterError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new IterError with automatic retryable detection.
func New(code ErrorCode, message string) *IterError {
	return &IterError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// Producer creates a new IterError for a producer that could not yield its
// next element.
func Producer(cause error) *IterError {
	return &IterError{
		Code: ErrCodeProducerFailed, Message: "The producer failed to yield the next element.",
		Retryable: false, Cause: cause,
	}
}

// SourceUnavailable creates a new IterError for a backing source that is
// temporarily unavailable.
func SourceUnavailable(source string) *IterError {
	return &IterError{
		Code: ErrCodeSourceUnavailable, Message: fmt.Sprintf("The %s source is temporarily unavailable.", source),
		Retryable: true,
		Details:   map[string]any{"source": source},
	}
}

// Timeout creates a new IterError for a pull that did not complete in time.
func Timeout(operation string) *IterError {
	return &IterError{
		Code: ErrCodeTimeout, Message: "The pull took too long.",
		Retryable: true,
		Details:   map[string]any{"operation": operation},
	}
}

// RateLimited creates a new IterError for a pull rejected by a rate limiter.
func RateLimited() *IterError {
	return &IterError{
		Code: ErrCodeRateLimited, Message: "Too many pulls. Please slow down.",
		Retryable: true,
	}
}

// ProtocolViolation creates a new IterError for a consumer that broke the
// iteration contract.
func ProtocolViolation(reason string) *IterError {
	return &IterError{
		Code: ErrCodeProtocolViolation, Message: reason,
		Retryable: false,
	}
}

// Closed creates a new IterError for an iterator used after Close.
func Closed() *IterError {
	return &IterError{
		Code: ErrCodeIteratorClosed, Message: "The iterator is closed.",
		Retryable: false,
	}
}

// Exhausted creates a new IterError for a pull past permanent exhaustion.
func Exhausted() *IterError {
	return &IterError{
		Code: ErrCodeIteratorExhausted, Message: "The iterator is exhausted.",
		Retryable: false,
	}
}

// SingleUse creates a new IterError for a second traversal of a single-use
// iterable.
func SingleUse(source string) *IterError {
	return &IterError{
		Code: ErrCodeSingleUse, Message: fmt.Sprintf("The %s iterable supports exactly one traversal.", source),
		Retryable: false,
		Details:   map[string]any{"source": source},
	}
}

// GeneratorPanic creates a new IterError wrapping a panic recovered from a
// generator body.
func GeneratorPanic(value any) *IterError {
	return &IterError{
		Code: ErrCodeGeneratorPanic, Message: fmt.Sprintf("The generator body panicked: %v", value),
		Retryable: false,
		Details:   map[string]any{"panic": fmt.Sprintf("%v", value)},
	}
}

// GeneratorStopped creates a new IterError for a generator terminated early.
func GeneratorStopped() *IterError {
	return &IterError{
		Code: ErrCodeGeneratorStopped, Message: "The generator was stopped before completion.",
		Retryable: false,
	}
}

// Validation creates a new IterError for validation errors.
func Validation(message string) *IterError {
	return &IterError{
		Code: ErrCodeInvalidInput, Message: message,
		Retryable: false,
	}
}

// InvalidInput creates a new IterError for invalid input.
func InvalidInput(field, reason string) *IterError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &IterError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Retryable: false, Details: details,
	}
}

// Internal creates a new IterError for an unexpected toolkit error.
func Internal(cause error) *IterError {
	return &IterError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}

// --- Inspection helpers ---

// AsIterError extracts an *IterError from an error chain.
func AsIterError(err error) (*IterError, bool) {
	var ie *IterError
	if stderrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// CodeOf returns the error code of err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if ie, ok := AsIterError(err); ok {
		return ie.Code
	}
	return ErrCodeInternal
}

// IsRetryable reports whether err is marked retryable.
func IsRetryable(err error) bool {
	if ie, ok := AsIterError(err); ok {
		return ie.Retryable
	}
	return false
}

// IsExhausted reports whether err signals iteration past permanent exhaustion.
func IsExhausted(err error) bool {
	return CodeOf(err) == ErrCodeIteratorExhausted
}

// IsClosed reports whether err signals use of a closed iterator.
func IsClosed(err error) bool {
	return CodeOf(err) == ErrCodeIteratorClosed
}
