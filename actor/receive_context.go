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
	"fmt"

	"github.com/tochemey/entitystore/address"
	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/log"
)

// ReceiveContext carries the message being handled and the operations
// available to the actor while handling it. It is only valid within the
// Receive call it was passed to and must not be retained.
type ReceiveContext struct {
	ctx     context.Context
	message any
	sender  *address.Address
	self    *PID
	err     error
}

func newReceiveContext(ctx context.Context, from *address.Address, to *PID, message any) *ReceiveContext {
	if from == nil {
		from = address.NoSender()
	}
	return &ReceiveContext{
		ctx:     ctx,
		message: message,
		sender:  from,
		self:    to,
	}
}

// Self returns the PID of the currently executing actor.
func (rctx *ReceiveContext) Self() *PID {
	return rctx.self
}

// Message returns the message being handled
func (rctx *ReceiveContext) Message() any {
	return rctx.message
}

// Sender returns the address of the message sender. It is the NoSender
// sentinel when the message was sent outside of an actor.
func (rctx *ReceiveContext) Sender() *address.Address {
	return rctx.sender
}

// Context returns the context the message was sent with
func (rctx *ReceiveContext) Context() context.Context {
	return rctx.ctx
}

// Logger returns the actor logger
func (rctx *ReceiveContext) Logger() log.Logger {
	return rctx.self.Logger()
}

// ActorSystem returns the actor system hosting the actor
func (rctx *ReceiveContext) ActorSystem() ActorSystem {
	return rctx.self.ActorSystem()
}

// Err records a non-fatal error observed during message handling.
func (rctx *ReceiveContext) Err(err error) {
	if err == nil {
		return
	}
	rctx.err = err
	rctx.self.logger.Errorf("Actor %s failed to handle %T: %v", rctx.self.Name(), rctx.message, err)
}

// Tell sends an asynchronous message to a local actor
func (rctx *ReceiveContext) Tell(to *PID, message any) {
	rctx.Err(rctx.self.Tell(context.WithoutCancel(rctx.ctx), to, message))
}

// Forward delivers the message to the given local actor on behalf of sender.
// The receiver observes sender as the message origin.
func (rctx *ReceiveContext) Forward(to *PID, message any, sender *address.Address) {
	if !to.IsRunning() {
		rctx.self.system.deadLetter(sender, to.Address(), message, gerrors.ErrDead.Error())
		rctx.Err(gerrors.ErrDead)
		return
	}
	to.doReceive(newReceiveContext(context.WithoutCancel(rctx.ctx), sender, to, message))
}

// RemoteTell sends an asynchronous message to the actor at the given
// address, local or remote.
func (rctx *ReceiveContext) RemoteTell(to *address.Address, message any) {
	rctx.Err(rctx.self.RemoteTell(context.WithoutCancel(rctx.ctx), to, message))
}

// Reply sends the message back to the sender when there is one
func (rctx *ReceiveContext) Reply(message any) {
	if rctx.sender.IsZero() {
		rctx.self.system.deadLetter(rctx.self.Address(), rctx.sender, message, "no sender to reply to")
		return
	}
	rctx.RemoteTell(rctx.sender, message)
}

// Spawn creates a child actor. It returns nil and records the error when the
// child cannot be started.
func (rctx *ReceiveContext) Spawn(name string, actor Actor) *PID {
	cid, err := rctx.self.SpawnChild(context.WithoutCancel(rctx.ctx), name, actor)
	if err != nil {
		rctx.Err(err)
		return nil
	}
	return cid
}

// Child returns the running child with the given name or nil
func (rctx *ReceiveContext) Child(name string) *PID {
	cid, err := rctx.self.Child(name)
	if err != nil {
		return nil
	}
	return cid
}

// Children returns the running children of the actor
func (rctx *ReceiveContext) Children() []*PID {
	return rctx.self.Children()
}

// Watch subscribes to the termination of the given actor
func (rctx *ReceiveContext) Watch(cid *PID) {
	rctx.self.Watch(cid)
}

// UnWatch stops watching the given actor
func (rctx *ReceiveContext) UnWatch(cid *PID) {
	rctx.self.UnWatch(cid)
}

// Stop gracefully stops the given child. The child handles its pending
// messages before stopping; Stop does not wait for it.
func (rctx *ReceiveContext) Stop(child *PID) {
	if child == nil || child.parent != rctx.self {
		rctx.Err(fmt.Errorf("%s is not a child of %s: %w", child.Name(), rctx.self.Name(), gerrors.ErrActorNotFound))
		return
	}
	rctx.Err(rctx.self.Tell(context.WithoutCancel(rctx.ctx), child, new(PoisonPill)))
}

// Shutdown stops the actor once the current message has been handled
func (rctx *ReceiveContext) Shutdown() {
	rctx.self.doReceive(newReceiveContext(context.WithoutCancel(rctx.ctx), rctx.self.Address(), rctx.self, new(PoisonPill)))
}

// Unhandled is used to declare the message as not handled by the actor.
// The message is routed to the dead letters.
func (rctx *ReceiveContext) Unhandled() {
	rctx.self.system.deadLetter(rctx.sender, rctx.self.Address(), rctx.message, gerrors.ErrUnhandled.Error())
}
