package status

import "errors"

var (
	ErrInvalidArgument  = errors.New("status: invalid argument")
	ErrAlreadyExists    = errors.New("status: already exists")
	ErrNotFound         = errors.New("status: not found")
	ErrPermissionDenied = errors.New("status: permission denied")
	ErrStorage          = errors.New("status: storage failure")
	ErrCorruptRecord    = errors.New("status: corrupt record")
	ErrSoldOut          = errors.New("status: event sold out")
)
