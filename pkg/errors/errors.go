// Package errors provides structured error types for texatlas.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND / FILE_NOT_FOUND: Resource not found
//   - ATLAS_TOO_LARGE / PLACEMENT_FAILED: Packing failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid size: %s", arg)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Classify an error returned by the packer
//	err := errors.FromPack(packErr)
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/texatlas/pkg/atlas"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Packing errors
	ErrCodeAtlasTooLarge   Code = "ATLAS_TOO_LARGE"
	ErrCodePlacementFailed Code = "PLACEMENT_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FromPack classifies an error returned by the atlas packer.
// Errors that already carry a code are returned unchanged; nil stays nil.
func FromPack(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	var tooLarge *atlas.TooLargeError
	var placement *atlas.PlacementError
	switch {
	case errors.As(err, &tooLarge):
		return Wrap(ErrCodeAtlasTooLarge, err,
			"images need %d bordered pixels but the largest atlas is %dx%d",
			tooLarge.Required, tooLarge.Max, tooLarge.Max)
	case errors.As(err, &placement):
		return Wrap(ErrCodePlacementFailed, err,
			"image %d (%dx%d) does not fit in a %dx%d atlas",
			placement.ID, placement.Width, placement.Height, placement.Dimension, placement.Dimension)
	case errors.Is(err, atlas.ErrEmptyInput), errors.Is(err, atlas.ErrInvalidSize):
		return Wrap(ErrCodeInvalidInput, err, "invalid input")
	case errors.Is(err, atlas.ErrInvalidCandidates), errors.Is(err, atlas.ErrInvalidBorder):
		return Wrap(ErrCodeInvalidConfig, err, "invalid atlas configuration")
	}
	return Wrap(ErrCodeInternal, err, "pack failed")
}

// HTTPStatus maps an error code to an HTTP status code.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidConfig, ErrCodeInvalidPath:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeAtlasTooLarge, ErrCodePlacementFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
