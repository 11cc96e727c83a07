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

package actor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tochemey/entitystore/address"
	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/internal/xsync"
	"github.com/tochemey/entitystore/log"
)

// processing states
const (
	// idle means there are no messages to process
	idle int32 = iota
	// busy means the PID is processing messages
	busy
)

// PID specifies an actor unique process
type PID struct {
	actor   Actor
	address *address.Address
	system  *actorSystem
	parent  *PID
	mailbox Mailbox
	logger  log.Logger

	processing *atomic.Int32
	running    *atomic.Bool

	processedCount    *atomic.Int64
	latestReceiveTime *atomic.Time
	children          *xsync.Map[string, *PID]
	watchers          *xsync.Map[string, *PID]
	watchees          *xsync.Map[string, *PID]
	stopped           chan struct{}
	stopOnce          sync.Once
}

func newPID(system *actorSystem, parent *PID, name string, actor Actor) *PID {
	return &PID{
		actor:             actor,
		address:           system.nodeAddress.WithName(name),
		system:            system,
		parent:            parent,
		mailbox:           newDefaultMailbox(),
		logger:            system.logger,
		processing:        atomic.NewInt32(idle),
		running:           atomic.NewBool(false),
		processedCount:    atomic.NewInt64(0),
		latestReceiveTime: atomic.NewTime(time.Time{}),
		children:          xsync.NewMap[string, *PID](),
		watchers:          xsync.NewMap[string, *PID](),
		watchees:          xsync.NewMap[string, *PID](),
		stopped:           make(chan struct{}),
	}
}

// ID returns the unique identifier of the actor, its canonical address
func (pid *PID) ID() string {
	return pid.Address().String()
}

// Name returns the actor given name
func (pid *PID) Name() string {
	if pid == nil {
		return ""
	}
	return pid.address.Name()
}

// Address returns the actor address
func (pid *PID) Address() *address.Address {
	if pid == nil {
		return address.NoSender()
	}
	return pid.address
}

// Actor returns the underlying actor
func (pid *PID) Actor() Actor {
	return pid.actor
}

// ActorSystem returns the actor system hosting the actor
func (pid *PID) ActorSystem() ActorSystem {
	return pid.system
}

// Logger returns the logger used by the actor
func (pid *PID) Logger() log.Logger {
	return pid.logger
}

// IsRunning returns true when the actor is alive ready to process messages
func (pid *PID) IsRunning() bool {
	return pid != nil && pid.running.Load()
}

// Equals is a convenient method to compare two PIDs
func (pid *PID) Equals(to *PID) bool {
	return pid.Address().Equals(to.Address())
}

// ProcessedCount returns the total number of messages handled by the actor
func (pid *PID) ProcessedCount() int {
	return int(pid.processedCount.Load())
}

// LatestActivityTime returns the time the actor last handled a message
func (pid *PID) LatestActivityTime() time.Time {
	return pid.latestReceiveTime.Load()
}

// Tell sends an asynchronous message to another local actor
func (pid *PID) Tell(ctx context.Context, to *PID, message any) error {
	if !to.IsRunning() {
		pid.system.deadLetter(pid.Address(), to.Address(), message, gerrors.ErrDead.Error())
		return gerrors.ErrDead
	}
	to.doReceive(newReceiveContext(ctx, pid.Address(), to, message))
	return nil
}

// RemoteTell sends an asynchronous message to the actor at the given address
func (pid *PID) RemoteTell(ctx context.Context, to *address.Address, message any) error {
	return pid.system.send(ctx, pid.Address(), to, message)
}

// SpawnChild creates a child actor under the given name
func (pid *PID) SpawnChild(ctx context.Context, name string, actor Actor) (*PID, error) {
	if !pid.IsRunning() {
		return nil, gerrors.ErrDead
	}

	cid, err := pid.system.spawn(ctx, pid, name, actor)
	if err != nil {
		return nil, err
	}

	pid.children.Set(name, cid)
	return cid, nil
}

// Child returns the running child with the given name
func (pid *PID) Child(name string) (*PID, error) {
	if cid, ok := pid.children.Get(name); ok && cid.IsRunning() {
		return cid, nil
	}
	return nil, gerrors.ErrActorNotFound
}

// Children returns the running children of the actor
func (pid *PID) Children() []*PID {
	children := make([]*PID, 0, pid.children.Len())
	for _, cid := range pid.children.Values() {
		if cid.IsRunning() {
			children = append(children, cid)
		}
	}
	return children
}

// Watch subscribes to the termination of the given actor.
// A Terminated message is delivered when cid stops.
func (pid *PID) Watch(cid *PID) {
	cid.watchers.Set(pid.ID(), pid)
	pid.watchees.Set(cid.ID(), cid)
}

// UnWatch stops watching the given actor
func (pid *PID) UnWatch(cid *PID) {
	cid.watchers.Delete(pid.ID())
	pid.watchees.Delete(cid.ID())
}

// Shutdown gracefully shuts down the actor. Messages already in the mailbox
// are handled before the actor stops. Shutdown blocks until the actor has
// stopped or the context is done. It must not be called from the actor's
// own Receive; use ReceiveContext.Shutdown instead.
func (pid *PID) Shutdown(ctx context.Context) error {
	if !pid.IsRunning() {
		return gerrors.ErrDead
	}

	pid.doReceive(newReceiveContext(ctx, address.NoSender(), pid, new(PoisonPill)))

	select {
	case <-pid.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// doReceive pushes a given message to the actor mailbox
// and signals the receiveLoop to process it
func (pid *PID) doReceive(receiveCtx *ReceiveContext) {
	if err := pid.mailbox.Enqueue(receiveCtx); err != nil {
		pid.logger.Warn(err)
		return
	}
	pid.process()
}

// process extracts every message from the actor mailbox
// and pass it to the appropriate behavior for handling
func (pid *PID) process() {
	// only one processing loop at a time
	if !pid.processing.CompareAndSwap(idle, busy) {
		return
	}

	go func() {
		for {
			if received := pid.mailbox.Dequeue(); received != nil {
				switch {
				case !pid.running.Load():
					if _, ok := received.Message().(*PoisonPill); !ok {
						pid.system.deadLetter(received.Sender(), pid.Address(), received.Message(), gerrors.ErrDead.Error())
					}
				default:
					if _, ok := received.Message().(*PoisonPill); ok {
						if err := pid.doStop(received.Context()); err != nil {
							pid.logger.Errorf("Actor %s stopped with error: %v", pid.Name(), err)
						}
						continue
					}
					pid.handleReceived(received)
				}
				continue
			}

			// if no more messages, change busy state to idle
			pid.processing.Store(idle)

			// check if new messages were added in the meantime and restart processing
			if !pid.mailbox.IsEmpty() && pid.processing.CompareAndSwap(idle, busy) {
				continue
			}
			return
		}
	}()
}

// handleReceived processes the message with the actor behavior
func (pid *PID) handleReceived(received *ReceiveContext) {
	defer pid.recovery(received)
	pid.latestReceiveTime.Store(time.Now().UTC())
	pid.processedCount.Inc()
	pid.actor.Receive(received)
}

// recovery keeps the actor alive when its behavior panics
func (pid *PID) recovery(received *ReceiveContext) {
	if r := recover(); r != nil {
		pc, fn, line, _ := runtime.Caller(2)
		pid.logger.Errorf("Actor %s panicked while handling %T: %v at %s[%s:%d]",
			pid.Name(), received.Message(), r, runtime.FuncForPC(pc).Name(), fn, line)
	}
}

// init runs the PreStart hook and marks the actor as running
func (pid *PID) init(ctx context.Context) error {
	if err := pid.actor.PreStart(ctx); err != nil {
		return fmt.Errorf("failed to initialize actor %s: %w", pid.Name(), err)
	}

	pid.running.Store(true)
	pid.doReceive(newReceiveContext(ctx, address.NoSender(), pid, new(PostStart)))
	pid.logger.Debugf("Actor %s successfully started.", pid.Name())
	return nil
}

// doStop runs on the processing goroutine. Children are stopped first,
// then the PostStop hook runs and the watchers are notified.
func (pid *PID) doStop(ctx context.Context) error {
	var err error
	pid.stopOnce.Do(func() {
		pid.running.Store(false)
		pid.logger.Debugf("Shutdown process has started for Actor %s...", pid.Name())

		for _, cid := range pid.children.Values() {
			pid.UnWatch(cid)
			if e := cid.Shutdown(ctx); e != nil && !errors.Is(e, gerrors.ErrDead) {
				err = multierr.Append(err, e)
			}
		}
		pid.children.Reset()

		for _, watched := range pid.watchees.Values() {
			pid.UnWatch(watched)
		}

		err = multierr.Append(err, pid.actor.PostStop(ctx))

		pid.system.remove(pid)
		if pid.parent != nil {
			pid.parent.children.Delete(pid.Name())
		}

		pid.freeWatchers(ctx)
		close(pid.stopped)
		pid.logger.Debugf("Shutdown process completed for Actor %s...", pid.Name())
	})
	return err
}

// freeWatchers lets the actors watching this actor know it has terminated
func (pid *PID) freeWatchers(ctx context.Context) {
	for _, watcher := range pid.watchers.Values() {
		if watcher.IsRunning() {
			watcher.doReceive(newReceiveContext(ctx, pid.Address(), watcher, NewTerminated(pid.Address())))
		}
		watcher.watchees.Delete(pid.ID())
	}
	pid.watchers.Reset()
}

// Tell sends an asynchronous message to an actor without a sender
func Tell(ctx context.Context, to *PID, message any) error {
	if !to.IsRunning() {
		return gerrors.ErrDead
	}
	to.doReceive(newReceiveContext(ctx, address.NoSender(), to, message))
	return nil
}
