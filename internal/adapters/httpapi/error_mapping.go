package httpapi

import (
	"errors"
	"net/http"

	"github.com/tasukeai/shift-marketplace/internal/core/schedule"
	"github.com/tasukeai/shift-marketplace/internal/core/shift"
	"github.com/tasukeai/shift-marketplace/internal/core/user"
)

func statusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, shift.ErrInvalidID),
		errors.Is(err, shift.ErrInvalidTitle),
		errors.Is(err, shift.ErrInvalidDepartment),
		errors.Is(err, shift.ErrInvalidJobRole),
		errors.Is(err, shift.ErrInvalidDate),
		errors.Is(err, shift.ErrInvalidRateBoost),
		errors.Is(err, shift.ErrInvalidStatus),
		errors.Is(err, shift.ErrInvalidUserID),
		errors.Is(err, shift.ErrInvalidPageSize),
		errors.Is(err, shift.ErrInvalidPageToken),
		errors.Is(err, user.ErrInvalidID),
		errors.Is(err, user.ErrInvalidName),
		errors.Is(err, user.ErrInvalidDepartment),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrInvalidPageSize),
		errors.Is(err, user.ErrInvalidPageToken),
		errors.Is(err, schedule.ErrInvalidClock),
		errors.Is(err, schedule.ErrInvalidDate),
		errors.Is(err, schedule.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, shift.ErrShiftNotFound), errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, shift.ErrShiftNotOpen),
		errors.Is(err, shift.ErrShiftNotFilled),
		errors.Is(err, shift.ErrAlreadyApplied),
		errors.Is(err, shift.ErrNotApplicant),
		errors.Is(err, user.ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	default:
		return "internal_error"
	}
}
