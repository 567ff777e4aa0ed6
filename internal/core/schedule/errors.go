package schedule

import "errors"

var (
	ErrInvalidClock = errors.New("schedule: invalid clock format")
	ErrInvalidDate  = errors.New("schedule: invalid date format")
	ErrInvalidRange = errors.New("schedule: invalid range mode")
)
