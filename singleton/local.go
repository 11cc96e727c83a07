/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package singleton

import (
	"context"
	"sync"

	gerrors "github.com/tochemey/entitystore/errors"
)

// LocalElector elects among candidates of the same process
type LocalElector struct {
	mu      sync.Mutex
	leader  string
	lease   *localLease
	changed chan struct{}
	closed  bool
}

var _ Elector = (*LocalElector)(nil)

// NewLocalElector creates a LocalElector
func NewLocalElector() *LocalElector {
	return &LocalElector{changed: make(chan struct{})}
}

// Campaign implements Elector
func (x *LocalElector) Campaign(ctx context.Context, candidate string) (Lease, error) {
	for {
		x.mu.Lock()
		if x.closed {
			x.mu.Unlock()
			return nil, gerrors.ErrElectorClosed
		}

		if x.leader == "" {
			lease := &localLease{elector: x, done: make(chan struct{})}
			x.leader = candidate
			x.lease = lease
			x.notify()
			x.mu.Unlock()
			return lease, nil
		}

		changed := x.changed
		x.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-changed:
		}
	}
}

// Leader implements Elector
func (x *LocalElector) Leader(context.Context) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.leader == "" {
		return "", gerrors.ErrLeaderNotFound
	}
	return x.leader, nil
}

// Close revokes the current lease and fails every pending campaign
func (x *LocalElector) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return nil
	}
	x.closed = true
	x.revoke(x.lease)
	return nil
}

// revoke must be called with the lock held
func (x *LocalElector) revoke(lease *localLease) {
	if lease == nil || x.lease != lease {
		return
	}
	x.leader = ""
	x.lease = nil
	lease.once.Do(func() { close(lease.done) })
	x.notify()
}

// notify wakes up the pending campaigns. It must be called with the lock held.
func (x *LocalElector) notify() {
	close(x.changed)
	x.changed = make(chan struct{})
}

type localLease struct {
	elector *LocalElector
	done    chan struct{}
	once    sync.Once
}

func (x *localLease) Done() <-chan struct{} {
	return x.done
}

func (x *localLease) Resign(context.Context) error {
	x.elector.mu.Lock()
	defer x.elector.mu.Unlock()
	x.elector.revoke(x)
	return nil
}
