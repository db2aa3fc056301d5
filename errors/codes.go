package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Producer errors
const (
	// ErrCodeProducerFailed indicates a concrete producer could not yield the next element.
	ErrCodeProducerFailed ErrorCode = "PRODUCER_FAILED"
	// ErrCodeSourceUnavailable indicates the backing source is temporarily unavailable.
	ErrCodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
	// ErrCodeTimeout indicates the producer did not yield within the deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the pull rate exceeded the configured limit.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Protocol errors
const (
	// ErrCodeProtocolViolation indicates a consumer broke the iteration contract.
	ErrCodeProtocolViolation ErrorCode = "PROTOCOL_VIOLATION"
	// ErrCodeIteratorClosed indicates the iterator was used after Close.
	ErrCodeIteratorClosed ErrorCode = "ITERATOR_CLOSED"
	// ErrCodeIteratorExhausted indicates a pull past permanent exhaustion under
	// strict protocol checking.
	ErrCodeIteratorExhausted ErrorCode = "ITERATOR_EXHAUSTED"
	// ErrCodeSingleUse indicates a second traversal was requested from a
	// single-use iterable.
	ErrCodeSingleUse ErrorCode = "SINGLE_USE"
)

// Generator errors
const (
	// ErrCodeGeneratorPanic indicates the generator body panicked.
	ErrCodeGeneratorPanic ErrorCode = "GENERATOR_PANIC"
	// ErrCodeGeneratorStopped indicates the generator was terminated early.
	ErrCodeGeneratorStopped ErrorCode = "GENERATOR_STOPPED"
)

// Validation/internal errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInternal indicates an internal toolkit error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeSourceUnavailable: true,
	ErrCodeTimeout:           true,
	ErrCodeRateLimited:       true,
	ErrCodeProducerFailed:    false,
	ErrCodeInternal:          false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
