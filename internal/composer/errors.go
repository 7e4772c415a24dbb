package composer

import (
	"errors"
	"fmt"
)

// ErrorCode classifies composition failures
type ErrorCode string

const (
	// ErrCodeResourceMissing means the template or a required font is absent
	ErrCodeResourceMissing ErrorCode = "RESOURCE_MISSING"
	// ErrCodeRenderFailed means the drawing backend failed
	ErrCodeRenderFailed ErrorCode = "RENDER_FAILED"
	// ErrCodeWriteFailed means the output file could not be written
	ErrCodeWriteFailed ErrorCode = "WRITE_FAILED"
)

// RenderError is returned by Compose. It names the receipt and target path
// it was composing
type RenderError struct {
	Code    ErrorCode
	Message string
	Receipt string
	Path    string
	Cause   error
}

// Error implements the error interface
func (e *RenderError) Error() string {
	msg := fmt.Sprintf("%s (receipt %q, path %q)", e.Message, e.Receipt, e.Path)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *RenderError) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, message, receipt, path string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Receipt: receipt,
		Path:    path,
		Cause:   cause,
	}
}

// CodeOf returns the code of the RenderError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsResourceMissing reports whether err is a missing template or font
func IsResourceMissing(err error) bool {
	return CodeOf(err) == ErrCodeResourceMissing
}

// IsRenderFailure reports whether err came from the drawing backend
func IsRenderFailure(err error) bool {
	return CodeOf(err) == ErrCodeRenderFailed
}

// IsWriteError reports whether err is an output write failure
func IsWriteError(err error) bool {
	return CodeOf(err) == ErrCodeWriteFailed
}
