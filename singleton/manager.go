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
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/entitystore/actor"
	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/log"
)

const (
	// DefaultRetryInterval is the default pause between two failed campaigns
	DefaultRetryInterval = time.Second
	resignTimeout        = 5 * time.Second
)

// Factory creates the singleton actor
type Factory func() actor.Actor

// Manager campaigns for a role on behalf of the local node and runs the
// singleton actor, named after the role, while the node holds the
// leadership. A fresh actor is created on every election so the singleton
// state does not survive a relocation.
type Manager struct {
	system        actor.ActorSystem
	elector       Elector
	role          string
	factory       Factory
	logger        log.Logger
	retryInterval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
	leader  *atomic.Bool
}

// NewManager creates a Manager
func NewManager(system actor.ActorSystem, elector Elector, role string, factory Factory, opts ...Option) *Manager {
	manager := &Manager{
		system:        system,
		elector:       elector,
		role:          role,
		factory:       factory,
		logger:        system.Logger(),
		retryInterval: DefaultRetryInterval,
		leader:        atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(manager)
	}
	return manager
}

// Start starts campaigning in the background
func (x *Manager) Start(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.cancel != nil {
		return nil
	}

	if !x.system.Running() {
		return gerrors.ErrActorSystemNotStarted
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	x.cancel = cancel
	x.stopped = make(chan struct{})
	go x.run(runCtx)
	return nil
}

// Stop stops the singleton when running locally, resigns and stops campaigning
func (x *Manager) Stop(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.cancel == nil {
		return nil
	}

	x.cancel()
	x.cancel = nil

	select {
	case <-x.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsLeader reports whether the local node currently runs the singleton
func (x *Manager) IsLeader() bool {
	return x.leader.Load()
}

func (x *Manager) run(ctx context.Context) {
	defer close(x.stopped)
	candidate := x.system.NodeAddress().NodeAddress()

	for {
		lease, err := x.elector.Campaign(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, gerrors.ErrElectorClosed) {
				return
			}
			x.logger.Warnf("singleton %s campaign failed: %v", x.role, err)
			if !x.pause(ctx) {
				return
			}
			continue
		}

		if _, err := x.system.Spawn(ctx, x.role, x.factory()); err != nil {
			x.logger.Warnf("failed to start singleton %s: %v", x.role, err)
			x.resign(lease)
			if !x.pause(ctx) {
				return
			}
			continue
		}

		x.leader.Store(true)
		x.logger.Infof("singleton %s is running on %s", x.role, candidate)

		select {
		case <-ctx.Done():
			x.leader.Store(false)
			x.kill()
			x.resign(lease)
			return
		case <-lease.Done():
			x.leader.Store(false)
			x.logger.Warnf("singleton %s lost its leadership on %s", x.role, candidate)
			x.kill()
		}
	}
}

func (x *Manager) kill() {
	ctx, cancel := context.WithTimeout(context.Background(), resignTimeout)
	defer cancel()
	if err := x.system.Kill(ctx, x.role); err != nil &&
		!errors.Is(err, gerrors.ErrActorNotFound) &&
		!errors.Is(err, gerrors.ErrActorSystemNotStarted) &&
		!errors.Is(err, gerrors.ErrDead) {
		x.logger.Warnf("failed to stop singleton %s: %v", x.role, err)
	}
}

func (x *Manager) resign(lease Lease) {
	ctx, cancel := context.WithTimeout(context.Background(), resignTimeout)
	defer cancel()
	if err := lease.Resign(ctx); err != nil {
		x.logger.Warnf("failed to resign singleton %s: %v", x.role, err)
	}
}

// pause waits for the retry interval. It returns false when the context is done.
func (x *Manager) pause(ctx context.Context) bool {
	timer := time.NewTimer(x.retryInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
