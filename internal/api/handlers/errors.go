package handlers

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/yogendra-27-bhange/eventplanner/internal/repositories"
	"github.com/yogendra-27-bhange/eventplanner/internal/services"
)

// statusFromError maps the service and repository error taxonomy onto HTTP
// status codes. Unrecognized errors, including store failures, surface as 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrAlreadyExists),
		errors.Is(err, repositories.ErrConflict),
		errors.Is(err, services.ErrAlreadySubmitted):
		return http.StatusConflict
	case errors.Is(err, repositories.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repositories.ErrPreconditionFailed),
		errors.Is(err, services.ErrNotRegistered),
		errors.Is(err, services.ErrEventNotConcluded):
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}
