package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/ingestion"
	"github.com/jonathan/placify/internal/review"
	"github.com/jonathan/placify/internal/shortlist"
)

// ErrReviewDisabled is returned when no LLM key is configured.
var ErrReviewDisabled = errors.New("review is disabled: GEMINI_API_KEY is not configured")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		invalidInput  *ats.InvalidInputError
		shortlistErr  *shortlist.ValidationError
		tooLarge      *ingestion.TooLargeError
		maxBytes      *http.MaxBytesError
		unsupported   *ingestion.UnsupportedTypeError
		apiErr        *review.APICallError
		parseErr      *review.ParseError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &apiErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	case errors.As(err, &validationErr), errors.As(err, &invalidInput), errors.As(err, &shortlistErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrReviewDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
