package config

import (
	"errors"
	"fmt"
)

// ErrNotExist is returned by ReadFile when the requested file is missing.
var ErrNotExist = errors.New("configuration file does not exist")

// ParseError reports a settings file that exists but could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
