package amzscrape

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// ERESOLUTION means a URL does not identify a product.
	ERESOLUTION = "resolution"

	// ETRANSPORT means the fetch capability returned a non-success status.
	ETRANSPORT = "transport"

	// EMALFORMED means a field was present in the page but could not be parsed.
	EMALFORMED = "malformed"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("amzscrape error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// FieldError reports a product field whose markup was found but whose text
// did not have the expected shape. The field is treated as absent.
type FieldError struct {
	Field string
	Text  string
	Err   error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("malformed %s %q: %v", e.Field, e.Text, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL. For errors combined with
// errors.Join, the first one that is not EMALFORMED decides the code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		code := EINTERNAL
		for _, inner := range joined.Unwrap() {
			if code = ErrorCode(inner); code != EMALFORMED {
				return code
			}
		}
		return code
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return EMALFORMED
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error". Joined errors
// report the error that decides ErrorCode.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			if ErrorCode(inner) != EMALFORMED {
				return ErrorMessage(inner)
			}
		}
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return "Internal error"
}

// FieldErrors returns every FieldError contained in err, which may be a
// single FieldError or several combined with errors.Join.
func FieldErrors(err error) []*FieldError {
	switch e := err.(type) {
	case nil:
		return nil
	case *FieldError:
		return []*FieldError{e}
	case interface{ Unwrap() []error }:
		var out []*FieldError
		for _, inner := range e.Unwrap() {
			out = append(out, FieldErrors(inner)...)
		}
		return out
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return []*FieldError{fe}
	}
	return nil
}
