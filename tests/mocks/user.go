package mocks

import (
	"context"
	"sync"
)

// UserMock is SSO user provider knowing a fixed set of users
type UserMock struct {
	mu      sync.Mutex
	Unknown map[int64]bool
	Err     error
	Calls   int
}

func (u *UserMock) Exists(_ context.Context, uuid int64) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.Calls++
	if u.Err != nil {
		return false, u.Err
	}

	return !u.Unknown[uuid], nil
}
