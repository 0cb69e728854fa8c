package posts

import (
	"errors"
)

var (
	ErrInternal     = errors.New("internal error")
	ErrNotFound     = errors.New("not found")
	ErrNotAuthor    = errors.New("user is not author of the post")
	ErrUserNotFound = errors.New("user does not exist")
	ErrInvalidForm  = errors.New("form is invalid")
	ErrLoginTaken   = errors.New("login belongs to another user")
)
