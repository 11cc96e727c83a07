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

// Package errors defines the sentinel errors returned by the entitystore packages.
// Callers should compare with errors.Is since most of them are wrapped with context.
package errors

import "errors"

var (
	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrUnhandled is returned when an actor receives a message it cannot handle.
	ErrUnhandled = errors.New("unhandled message")

	// ErrActorNotFound indicates that the specified actor could not be found in the system.
	ErrActorNotFound = errors.New("actor not found")

	// ErrActorAlreadyExists is returned when trying to create an actor with a name that already exists.
	ErrActorAlreadyExists = errors.New("actor already exists")

	// ErrActorSystemNotStarted indicates that an actor system has not been started before use.
	ErrActorSystemNotStarted = errors.New("actor system is not running")

	// ErrActorSystemAlreadyStarted is returned when attempting to start an actor system that is already running.
	ErrActorSystemAlreadyStarted = errors.New("actor system has already started")

	// ErrNameRequired is returned when an actor or actor system name is required but not provided.
	ErrNameRequired = errors.New("name is required")

	// ErrRemotingDisabled is returned when remote messaging is attempted but remoting is not enabled.
	ErrRemotingDisabled = errors.New("remoting is not enabled")

	// ErrInvalidMessage indicates that a message is structurally or semantically invalid.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidAddress is returned when an actor address cannot be parsed.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrSchedulerNotStarted is returned when attempting to use the scheduler before it has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrLeaderNotFound is returned when no singleton leader is currently elected.
	ErrLeaderNotFound = errors.New("leader is not found")

	// ErrElectorClosed is returned when an elector is used after being closed.
	ErrElectorClosed = errors.New("elector is closed")

	// ErrInvalidPort is returned when the node port is missing or out of range.
	ErrInvalidPort = errors.New("a valid node port is required")

	// ErrClusterNotStarted is returned when membership is queried before the node joined.
	ErrClusterNotStarted = errors.New("cluster node has not started")

	// ErrTypeNotRegistered is returned when a wire message type is not in the types registry.
	ErrTypeNotRegistered = errors.New("type is not registered")

	// ErrTransportNotStarted is returned when a message is sent on a stopped transport.
	ErrTransportNotStarted = errors.New("remote transport has not started")
)
