package storage

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUserExists    = errors.New("username is taken by another user")
	ErrUnknownDriver = errors.New("unknown database driver")
)
