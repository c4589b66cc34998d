package returns

import "errors"

// ErrCode identifies the caller-visible failure kinds of the return
// workflow.  The HTTP layer maps each code to a status; nothing in
// this package knows about HTTP.
type ErrCode string

const (
	// ErrInvalidInput means a request field was missing or not a
	// syntactically valid identifier.  Field(err) names the field.
	ErrInvalidInput ErrCode = "INVALID_INPUT"
	// ErrNotFound means no rental exists for the (customer, movie) pair.
	ErrNotFound ErrCode = "NOT_FOUND"
	// ErrAlreadyProcessed means the rental for the pair was already
	// returned.  A repeat return is rejected rather than treated as a
	// no-op so that retries can never credit stock twice.
	ErrAlreadyProcessed ErrCode = "ALREADY_PROCESSED"
	// ErrStoreUnavailable wraps a transient infrastructure failure from
	// either store.  The service never retries; the caller decides.
	ErrStoreUnavailable ErrCode = "STORE_UNAVAILABLE"
)

type codedError struct {
	code  ErrCode
	field string
	cause error
}

func (e codedError) Error() string {
	if e.field != "" {
		return string(e.code) + ": " + e.field
	}
	if e.cause != nil {
		return string(e.code) + ": " + e.cause.Error()
	}
	return string(e.code)
}

func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Unwrap() error { return e.cause }

// InvalidInputError reports a missing or malformed request field.
func InvalidInputError(field string) error {
	return codedError{code: ErrInvalidInput, field: field}
}

// NotFoundError reports that no rental exists for the pair.
func NotFoundError() error { return codedError{code: ErrNotFound} }

// AlreadyProcessedError reports a repeat return of a closed rental.
func AlreadyProcessedError() error { return codedError{code: ErrAlreadyProcessed} }

// StoreUnavailableError wraps a transient store failure.
func StoreUnavailableError(cause error) error {
	return codedError{code: ErrStoreUnavailable, cause: cause}
}

// Code extracts the error code from an error produced by this package.
// It returns the empty code for foreign errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Field returns the offending field name for ErrInvalidInput errors
// and the empty string otherwise.
func Field(err error) string {
	var ce codedError
	if errors.As(err, &ce) {
		return ce.field
	}
	return ""
}
