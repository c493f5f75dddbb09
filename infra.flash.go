package main

import (
	"context"
	"errors"
)

// ErrInvalidSession is returned when a flash operation is given an empty session id.
var ErrInvalidSession = errors.New("invalid flash session")

// FlashStore keeps the notices raised before a redirect so they can be
// shown by the next page of the same browser session. Pop drains them.
type FlashStore interface {
	Push(ctx context.Context, sid string, messages ...string) error
	Pop(ctx context.Context, sid string) ([]string, error)
	Close() error
}

// flashKey builds the storage key of a session.
func flashKey(sid string) string {
	return "flash:" + sid
}
