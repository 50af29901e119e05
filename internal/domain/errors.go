package domain

import "errors"

var (
	ErrNotConnected     = errors.New("not connected")
	ErrUnknownTech      = errors.New("unknown tech id")
	ErrInvalidLevel     = errors.New("tech level must not be negative")
	ErrAuthRejected     = errors.New("connect code rejected")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
