package http

import (
	"errors"
	"net/http"

	"mindcare/internal/domain"
	"mindcare/internal/service"
)

// statusForError mapea la taxonomia de errores del motor a status HTTP.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAppendRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
