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

package testkit

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/entitystore/actor"
	"github.com/tochemey/entitystore/address"
)

const (
	MessagesQueueMax int           = 1000
	DefaultTimeout   time.Duration = 3 * time.Second
)

// Probe defines the probe interface that helps perform some assertions
// when implementing unit tests with actors
type Probe interface {
	// ExpectMessage asserts that the message received from the test actor is the expected one
	ExpectMessage(message any)
	// ExpectMessageWithin asserts that the message received from the test actor is the expected one within a time duration
	ExpectMessageWithin(duration time.Duration, message any)
	// ExpectNoMessage asserts that no message is received within a short time window
	ExpectNoMessage()
	// ExpectAnyMessage asserts that any message is received and returns it
	ExpectAnyMessage() any
	// ExpectAnyMessageWithin asserts that any message is received within a time duration
	ExpectAnyMessageWithin(duration time.Duration) any
	// ExpectMessageOfType asserts the expectation of a given message type and returns the message
	ExpectMessageOfType(messageType reflect.Type) any
	// Send sends a message to the given local actor with the probe as sender
	Send(actorName string, message any)
	// Sender returns the sender of last received message.
	Sender() *address.Address
	// PID returns the pid of the test actor
	PID() *actor.PID
	// Address returns the address of the test actor, usable as a reply-to
	Address() *address.Address
	// Stop stops the test probe
	Stop()
}

type message struct {
	sender  *address.Address
	payload any
}

type probeActor struct {
	messageQueue chan message
}

var _ actor.Actor = &probeActor{}

// PreStart is called before the actor starts
func (x *probeActor) PreStart(context.Context) error {
	return nil
}

// Receive handle message received
func (x *probeActor) Receive(ctx *actor.ReceiveContext) {
	switch ctx.Message().(type) {
	// skip system message
	case *actor.PostStart, *actor.Terminated:
	default:
		x.messageQueue <- message{
			sender:  ctx.Sender(),
			payload: ctx.Message(),
		}
	}
}

// PostStop handles stop routines
func (x *probeActor) PostStop(context.Context) error {
	return nil
}

// probe defines the test probe implementation
type probe struct {
	pt *testing.T

	testCtx        context.Context
	pid            *actor.PID
	lastMessage    any
	lastSender     *address.Address
	messageQueue   chan message
	defaultTimeout time.Duration
}

var _ Probe = (*probe)(nil)

// NewProbe spawns a probe actor in the given actor system
func NewProbe(ctx context.Context, t *testing.T, system actor.ActorSystem) Probe {
	t.Helper()
	queue := make(chan message, MessagesQueueMax)
	pid, err := system.Spawn(ctx, "probe-"+uuid.NewString(), &probeActor{messageQueue: queue})
	require.NoError(t, err)
	return &probe{
		pt:             t,
		testCtx:        ctx,
		pid:            pid,
		messageQueue:   queue,
		defaultTimeout: DefaultTimeout,
	}
}

// ExpectMessage assert message expectation
func (x *probe) ExpectMessage(message any) {
	x.expectMessage(x.defaultTimeout, message)
}

// ExpectMessageWithin expects message within a time duration
func (x *probe) ExpectMessageWithin(duration time.Duration, message any) {
	x.expectMessage(duration, message)
}

// ExpectNoMessage expects no message
func (x *probe) ExpectNoMessage() {
	received := x.receiveOne(100 * time.Millisecond)
	require.Nil(x.pt, received, fmt.Sprintf("received unexpected message %#v", received))
}

// ExpectAnyMessage expects any message
func (x *probe) ExpectAnyMessage() any {
	return x.expectAnyMessage(x.defaultTimeout)
}

// ExpectAnyMessageWithin expects any message within a time duration
func (x *probe) ExpectAnyMessageWithin(duration time.Duration) any {
	return x.expectAnyMessage(duration)
}

// ExpectMessageOfType asserts the expectation of a given message type
func (x *probe) ExpectMessageOfType(messageType reflect.Type) any {
	received := x.expectAnyMessage(x.defaultTimeout)
	require.Equal(x.pt, messageType, reflect.TypeOf(received))
	return received
}

// Send sends a message to the actor to be tested
func (x *probe) Send(actorName string, message any) {
	to, err := x.pid.ActorSystem().LocalActor(actorName)
	require.NoError(x.pt, err)
	require.NoError(x.pt, x.pid.Tell(x.testCtx, to, message))
}

// Sender returns the last sender
func (x *probe) Sender() *address.Address {
	return x.lastSender
}

// PID returns the pid of the test actor
func (x *probe) PID() *actor.PID {
	return x.pid
}

// Address returns the address of the test actor
func (x *probe) Address() *address.Address {
	return x.pid.Address()
}

// Stop stops the test probe
func (x *probe) Stop() {
	require.NoError(x.pt, x.pid.Shutdown(x.testCtx))
}

// receiveOne receives one message within a maximum time duration
func (x *probe) receiveOne(max time.Duration) any {
	timer := time.NewTimer(max)
	defer timer.Stop()

	select {
	case m := <-x.messageQueue:
		x.lastMessage = m.payload
		x.lastSender = m.sender
		return m.payload
	case <-timer.C:
		return nil
	}
}

func (x *probe) expectMessage(max time.Duration, message any) {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectMessage while waiting for %#v", max, message))
	require.Equal(x.pt, message, received)
}

func (x *probe) expectAnyMessage(max time.Duration) any {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectAnyMessage", max))
	return received
}
