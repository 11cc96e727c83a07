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
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/entitystore/address"
	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/internal/validation"
	"github.com/tochemey/entitystore/internal/xsync"
	"github.com/tochemey/entitystore/log"
	"github.com/tochemey/entitystore/remote"
)

const (
	// DefaultShutdownTimeout defines the default shutdown timeout
	DefaultShutdownTimeout = 30 * time.Second
	// DefaultHost is the host used when none is configured
	DefaultHost = "127.0.0.1"
)

// ActorSystem defines the contract of an actor system
type ActorSystem interface {
	// Name returns the actor system name
	Name() string
	// Start starts the actor system
	Start(ctx context.Context) error
	// Stop stops the actor system and all its actors
	Stop(ctx context.Context) error
	// Running returns true when the actor system is running
	Running() bool
	// Spawn creates a top-level actor in the system
	Spawn(ctx context.Context, name string, actor Actor) (*PID, error)
	// Kill stops the actor with the given name
	Kill(ctx context.Context, name string) error
	// LocalActor returns the running actor with the given name
	LocalActor(name string) (*PID, error)
	// Actors returns the list of running actors
	Actors() []*PID
	// NodeAddress returns the address of the node hosting the actor system.
	// Its name component is empty.
	NodeAddress() *address.Address
	// Tell sends a message without sender to the actor at the given address,
	// local or remote.
	Tell(ctx context.Context, to *address.Address, message any) error
	// ScheduleOnce delivers the message to the actor once after the given delay
	ScheduleOnce(message any, pid *PID, delay time.Duration, opts ...ScheduleOption) error
	// Schedule delivers the message to the actor at the given interval
	Schedule(message any, pid *PID, interval time.Duration, opts ...ScheduleOption) error
	// CancelSchedule cancels the scheduled message with the given reference
	CancelSchedule(reference string) error
	// Logger returns the logger used by the actor system
	Logger() log.Logger
}

// actorSystem is the default implementation of ActorSystem
type actorSystem struct {
	mu              sync.Mutex
	name            string
	host            string
	port            int
	nodeAddress     *address.Address
	logger          log.Logger
	shutdownTimeout time.Duration
	transport       remote.Transport
	scheduler       *scheduler
	actors          *xsync.Map[string, *PID]
	started         *atomic.Bool
	deadLetters     *atomic.Int64
}

var _ ActorSystem = (*actorSystem)(nil)

// NewActorSystem creates an instance of ActorSystem
func NewActorSystem(name string, opts ...Option) (ActorSystem, error) {
	system := &actorSystem{
		name:            name,
		host:            DefaultHost,
		logger:          log.DefaultLogger,
		shutdownTimeout: DefaultShutdownTimeout,
		actors:          xsync.NewMap[string, *PID](),
		started:         atomic.NewBool(false),
		deadLetters:     atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if err := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("name", name)).
		AddAssertion(!strings.ContainsAny(name, "/@. "), "actor system name must not contain '/', '@', '.' or spaces").
		AddAssertion(system.transport == nil || system.port > 0, "remoting requires a valid port").
		Validate(); err != nil {
		return nil, err
	}

	scheduler, err := newScheduler(system.logger, system.shutdownTimeout)
	if err != nil {
		return nil, err
	}

	system.scheduler = scheduler
	system.nodeAddress = address.New("", name, system.host, system.port)
	return system, nil
}

// Name returns the actor system name
func (x *actorSystem) Name() string {
	return x.name
}

// Logger returns the logger used by the actor system
func (x *actorSystem) Logger() log.Logger {
	return x.logger
}

// NodeAddress returns the address of the node hosting the actor system
func (x *actorSystem) NodeAddress() *address.Address {
	return x.nodeAddress
}

// Running returns true when the actor system is running
func (x *actorSystem) Running() bool {
	return x.started.Load()
}

// Start starts the actor system
func (x *actorSystem) Start(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.started.Load() {
		return gerrors.ErrActorSystemAlreadyStarted
	}

	x.logger.Infof("%s actor system starting on %s...", x.name, x.nodeAddress.NodeAddress())
	x.scheduler.Start(ctx)

	if x.transport != nil {
		if err := x.transport.Start(ctx, x.nodeAddress, x.deliver); err != nil {
			x.scheduler.Stop(ctx)
			return fmt.Errorf("failed to start remoting: %w", err)
		}
	}

	x.started.Store(true)
	x.logger.Infof("%s actor system successfully started.", x.name)
	return nil
}

// Stop stops the actor system. Top-level actors are stopped concurrently,
// each one stopping its descendants first.
func (x *actorSystem) Stop(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrActorSystemNotStarted
	}

	x.logger.Infof("%s actor system shutting down...", x.name)
	ctx, cancel := context.WithTimeout(ctx, x.shutdownTimeout)
	defer cancel()

	x.scheduler.Stop(ctx)

	eg, egCtx := errgroup.WithContext(ctx)
	for _, pid := range x.actors.Values() {
		if pid.parent != nil {
			continue
		}
		eg.Go(func() error {
			if err := pid.Shutdown(egCtx); err != nil && !errors.Is(err, gerrors.ErrDead) {
				return fmt.Errorf("failed to stop actor %s: %w", pid.Name(), err)
			}
			return nil
		})
	}

	err := eg.Wait()
	if x.transport != nil {
		err = multierr.Append(err, x.transport.Stop(ctx))
	}

	x.started.Store(false)
	x.actors.Reset()
	if err != nil {
		x.logger.Errorf("%s actor system shutdown failed: %v", x.name, err)
		return err
	}

	x.logger.Infof("%s actor system successfully shutdown.", x.name)
	return nil
}

// Spawn creates a top-level actor in the system
func (x *actorSystem) Spawn(ctx context.Context, name string, actor Actor) (*PID, error) {
	if !x.started.Load() {
		return nil, gerrors.ErrActorSystemNotStarted
	}
	return x.spawn(ctx, nil, name, actor)
}

// Kill stops the actor with the given name
func (x *actorSystem) Kill(ctx context.Context, name string) error {
	if !x.started.Load() {
		return gerrors.ErrActorSystemNotStarted
	}

	pid, err := x.LocalActor(name)
	if err != nil {
		return err
	}
	return pid.Shutdown(ctx)
}

// LocalActor returns the running actor with the given name
func (x *actorSystem) LocalActor(name string) (*PID, error) {
	if pid, ok := x.actors.Get(name); ok && pid.IsRunning() {
		return pid, nil
	}
	return nil, fmt.Errorf("%s: %w", name, gerrors.ErrActorNotFound)
}

// Actors returns the list of running actors
func (x *actorSystem) Actors() []*PID {
	pids := make([]*PID, 0, x.actors.Len())
	for _, pid := range x.actors.Values() {
		if pid.IsRunning() {
			pids = append(pids, pid)
		}
	}
	return pids
}

// Tell sends a message without sender to the actor at the given address
func (x *actorSystem) Tell(ctx context.Context, to *address.Address, message any) error {
	return x.send(ctx, address.NoSender(), to, message)
}

// ScheduleOnce delivers the message to the actor once after the given delay
func (x *actorSystem) ScheduleOnce(message any, pid *PID, delay time.Duration, opts ...ScheduleOption) error {
	return x.scheduler.ScheduleOnce(message, pid, delay, opts...)
}

// Schedule delivers the message to the actor at the given interval
func (x *actorSystem) Schedule(message any, pid *PID, interval time.Duration, opts ...ScheduleOption) error {
	return x.scheduler.Schedule(message, pid, interval, opts...)
}

// CancelSchedule cancels the scheduled message with the given reference
func (x *actorSystem) CancelSchedule(reference string) error {
	return x.scheduler.Cancel(reference)
}

// spawn registers and starts the actor. Names are unique within the system.
func (x *actorSystem) spawn(ctx context.Context, parent *PID, name string, actor Actor) (*PID, error) {
	if strings.TrimSpace(name) == "" {
		return nil, gerrors.ErrNameRequired
	}

	if strings.ContainsAny(name, "/@") {
		return nil, fmt.Errorf("invalid actor name %q: must not contain '/' or '@'", name)
	}

	pid := newPID(x, parent, name, actor)

	if !x.actors.SetIfAbsent(name, pid) {
		return nil, fmt.Errorf("%s: %w", name, gerrors.ErrActorAlreadyExists)
	}

	if err := pid.init(ctx); err != nil {
		x.actors.Delete(name)
		return nil, err
	}
	return pid, nil
}

// remove unregisters a stopped actor
func (x *actorSystem) remove(pid *PID) {
	if current, ok := x.actors.Get(pid.Name()); ok && current == pid {
		x.actors.Delete(pid.Name())
	}
}

// send routes the message to a local actor or through the remote transport
func (x *actorSystem) send(ctx context.Context, from, to *address.Address, message any) error {
	if to.IsZero() {
		return gerrors.ErrInvalidAddress
	}

	if to.IsRemote(x.host, x.port) {
		if x.transport == nil {
			return gerrors.ErrRemotingDisabled
		}
		return x.transport.Send(ctx, &remote.Envelope{To: to, From: from, Message: message})
	}

	pid, err := x.LocalActor(to.Name())
	if err != nil {
		x.deadLetter(from, to, message, err.Error())
		return err
	}

	pid.doReceive(newReceiveContext(ctx, from, pid, message))
	return nil
}

// deliver hands a remote envelope to the local recipient
func (x *actorSystem) deliver(ctx context.Context, envelope *remote.Envelope) {
	if err := x.send(ctx, envelope.From, envelope.To, envelope.Message); err != nil {
		x.logger.Debugf("failed to deliver remote message %T to %s: %v", envelope.Message, envelope.To.String(), err)
	}
}

// deadLetter records a message that could not be handled
func (x *actorSystem) deadLetter(from, to *address.Address, message any, reason string) {
	x.deadLetters.Inc()
	x.logger.Debugf("dead letter %T from %q to %q: %s", message, from.String(), to.String(), reason)
}
