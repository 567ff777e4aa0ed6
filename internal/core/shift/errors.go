package shift

import "errors"

var (
	ErrInvalidID         = errors.New("shift: invalid id")
	ErrInvalidTitle      = errors.New("shift: invalid title")
	ErrInvalidDepartment = errors.New("shift: invalid department")
	ErrInvalidJobRole    = errors.New("shift: invalid job role")
	ErrInvalidDate       = errors.New("shift: invalid date")
	ErrInvalidRateBoost  = errors.New("shift: invalid hourly rate boost")
	ErrInvalidStatus     = errors.New("shift: invalid status")
	ErrInvalidUserID     = errors.New("shift: invalid user id")
	ErrInvalidPageSize   = errors.New("shift: invalid page size")
	ErrInvalidPageToken  = errors.New("shift: invalid page token")
	ErrShiftNotFound     = errors.New("shift: not found")
	ErrShiftNotOpen      = errors.New("shift: not open")
	ErrShiftNotFilled    = errors.New("shift: not filled")
	ErrAlreadyApplied    = errors.New("shift: already applied")
	ErrNotApplicant      = errors.New("shift: user is not an applicant")
)
