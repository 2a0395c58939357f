package entity

import "errors"

var (
	ErrNoLeader       = errors.New("no leader")
	ErrNotLeader      = errors.New("replica is not leader")
	ErrUnknownRequest = errors.New("unknown autofill request id")
)
