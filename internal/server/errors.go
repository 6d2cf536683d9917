package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/store"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrInvalidModelOutput indicates the model answered with text that does
// not parse as the expected JSON
type ErrInvalidModelOutput struct {
	Raw   string
	Cause error
}

func (e *ErrInvalidModelOutput) Error() string {
	return "AI response was not valid JSON. Please try again."
}

func (e *ErrInvalidModelOutput) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var storeErr *store.ValidationError
	var dupErr *store.DuplicateSectionError

	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrInvalidModelOutput:
		return http.StatusBadGateway
	}

	switch {
	case errors.As(err, &storeErr):
		return http.StatusBadRequest
	case errors.As(err, &dupErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
