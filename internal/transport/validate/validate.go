package validate

import (
	"errors"
	"strings"
)

var (
	ErrId     = errors.New("id must be natural number")
	ErrLogin  = errors.New("login can't be empty")
	ErrThemes = errors.New("post can belong to one theme at most")
)

func Id(id int64) error {
	if id <= 0 {
		return ErrId
	}

	return nil
}

func Login(login string) error {
	if strings.TrimSpace(login) == "" {
		return ErrLogin
	}

	return nil
}

func Themes(themes []string) error {
	if len(themes) > 1 {
		return ErrThemes
	}

	return nil
}
