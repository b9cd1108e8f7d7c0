package errors

import (
	"errors"
	"net/http"
)

// MapToHTTPStatus translates domain errors to the status code returned by the HTTP surface.
// Anything unknown is a server error.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrEmptyContent),
		errors.Is(err, ErrContentTooLong),
		errors.Is(err, ErrEmptyQuery),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrTaskNotOpen),
		errors.Is(err, ErrOwnTask),
		errors.Is(err, ErrAlreadyApplied),
		errors.Is(err, ErrTaskCompleted),
		errors.Is(err, ErrInsufficientCredits):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotParticipant),
		errors.Is(err, ErrNotTaskCreator):
		return http.StatusForbidden
	case errors.Is(err, ErrConversationNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsInternal reports whether err must be hidden from the caller.
func IsInternal(err error) bool {
	return MapToHTTPStatus(err) == http.StatusInternalServerError
}
