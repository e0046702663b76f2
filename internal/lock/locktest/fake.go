// Package locktest provides an in-memory lock client for tests.
package locktest

import (
	"context"
	"sync"

	"github.com/prbot/prbot/pkg/errors"
)

// FakeClient implements lock.Client in memory. Held names fail to acquire
// immediately, mirroring the short blocking timeout of the real client.
type FakeClient struct {
	mu   sync.Mutex
	held map[string]bool

	// Acquired records every successful acquisition in order
	Acquired []string

	// FailAll makes every acquisition and ping fail, simulating an
	// unreachable lock service
	FailAll bool
}

// NewFakeClient creates an empty fake lock client
func NewFakeClient() *FakeClient {
	return &FakeClient{held: map[string]bool{}}
}

func (f *FakeClient) Acquire(ctx context.Context, name string) (func() error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailAll || f.held[name] {
		return nil, errors.New(errors.ErrCodeLock, "could not acquire lock "+name)
	}
	f.held[name] = true
	f.Acquired = append(f.Acquired, name)

	release := func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.held, name)
		return nil
	}
	return release, nil
}

func (f *FakeClient) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailAll {
		return errors.New(errors.ErrCodeLock, "lock service unreachable")
	}
	return nil
}

// Hold marks a name as held so the next acquisition fails
func (f *FakeClient) Hold(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.held[name] = true
}
