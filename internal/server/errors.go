package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/planmyjob/internal/ingestion"
	"github.com/jonathan/planmyjob/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBadRequest indicates a body that could not be decoded
type ErrBadRequest struct {
	Message string
	Cause   error
}

func (e *ErrBadRequest) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Cause
}

// ErrRequestTooLarge indicates a body over the endpoint's size limit
type ErrRequestTooLarge struct {
	Limit int64
}

func (e *ErrRequestTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// FieldError is one invalid field in an error response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		badRequestErr *ErrBadRequest
		tooLargeErr   *ErrRequestTooLarge
		inputErr      *types.InputError
		fieldErrs     validator.ValidationErrors
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &badRequestErr),
		errors.As(err, &inputErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &tooLargeErr), errors.Is(err, ingestion.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingestion.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, ingestion.ErrEmptyInput), errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ingestion.ErrHTTPRequestFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fieldErrors lists the invalid fields carried by err, if any.
func fieldErrors(err error) []FieldError {
	var (
		validationErr *ErrValidation
		inputErr      *types.InputError
		fieldErrs     validator.ValidationErrors
	)
	switch {
	case errors.As(err, &fieldErrs):
		out := make([]FieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
		}
		return out
	case errors.As(err, &inputErr):
		return []FieldError{{Field: inputErr.Field, Message: inputErr.Message}}
	case errors.As(err, &validationErr):
		return []FieldError{{Field: validationErr.Field, Message: validationErr.Message}}
	}
	return nil
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "champ obligatoire"
	case "min":
		return "au moins " + fe.Param() + " élément(s)"
	case "max":
		return "au plus " + fe.Param()
	case "oneof":
		return "valeur attendue parmi : " + fe.Param()
	case "http_url":
		return "URL http(s) attendue"
	case "gte", "lte":
		return "valeur hors limites"
	default:
		return "règle " + fe.Tag() + " non respectée"
	}
}
