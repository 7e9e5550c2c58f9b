package core

import "errors"

var (
	// ErrNicknameTaken is returned when a registration races or repeats
	// an already claimed nickname.
	ErrNicknameTaken = errors.New("nickname already taken")
	// ErrUserNotFound is returned by registry lookups for unknown nicknames.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoomNotFound is returned for room ids that were never allocated
	// or have since been deleted.
	ErrRoomNotFound = errors.New("room not found")
	// ErrChannelClosed means the client behind a channel is gone; callers
	// should stop writing and let that client's session clean up.
	ErrChannelClosed = errors.New("channel closed")
)
