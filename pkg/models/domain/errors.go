package domain

import "errors"

var (
	ErrChannelNotFound  = errors.New("channel not found")
	ErrNotTextBased     = errors.New("channel is not text-based")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrInvalidWeeksBack = errors.New("weeks back must not be negative")
)
