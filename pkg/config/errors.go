package config

import "errors"

var (
	ErrFileNotFound  = errors.New("config: file not found")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)
