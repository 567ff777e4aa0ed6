package user

import "errors"

var (
	ErrInvalidID            = errors.New("user: invalid id")
	ErrInvalidName          = errors.New("user: invalid name")
	ErrInvalidDepartment    = errors.New("user: invalid department")
	ErrInvalidRole          = errors.New("user: invalid role")
	ErrInvalidPageSize      = errors.New("user: invalid page size")
	ErrInvalidPageToken     = errors.New("user: invalid page token")
	ErrUserNotFound         = errors.New("user: not found")
	ErrUserAlreadyExists    = errors.New("user: id already exists")
	ErrAuthenticationFailed = errors.New("user: authentication failed")
)
