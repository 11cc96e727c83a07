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
	"sync"

	"github.com/tochemey/entitystore/address"
)

type testMessage struct {
	Seq int
}

type received struct {
	message any
	sender  *address.Address
}

// recorder pushes every user message it receives to a channel
type recorder struct {
	out      chan received
	mu       sync.Mutex
	started  bool
	stopped  bool
	postStop func()
}

var _ Actor = (*recorder)(nil)

func newRecorder() *recorder {
	return &recorder{out: make(chan received, 1000)}
}

func (x *recorder) PreStart(context.Context) error {
	return nil
}

func (x *recorder) Receive(ctx *ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *PostStart:
		x.mu.Lock()
		x.started = true
		x.mu.Unlock()
	case *testMessage:
		x.out <- received{message: msg, sender: ctx.Sender()}
	case string:
		if msg == "reply" {
			ctx.Reply(&testMessage{Seq: -1})
			return
		}
		ctx.Unhandled()
	default:
		ctx.Unhandled()
	}
}

func (x *recorder) PostStop(context.Context) error {
	x.mu.Lock()
	x.stopped = true
	x.mu.Unlock()
	if x.postStop != nil {
		x.postStop()
	}
	return nil
}

func (x *recorder) isStopped() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.stopped
}

// supervisor spawns a child on demand and reports its termination
type supervisor struct {
	terminated chan *address.Address
}

type spawnChild struct {
	Name string
}

type stopChild struct {
	Name string
}

func (x *supervisor) PreStart(context.Context) error {
	return nil
}

func (x *supervisor) Receive(ctx *ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *spawnChild:
		if cid := ctx.Spawn(msg.Name, newRecorder()); cid != nil {
			ctx.Watch(cid)
		}
	case *stopChild:
		ctx.Stop(ctx.Child(msg.Name))
	case *Terminated:
		x.terminated <- msg.Address()
	}
}

func (x *supervisor) PostStop(context.Context) error {
	return nil
}

type failingActor struct{}

func (failingActor) PreStart(context.Context) error { return errors.New("boom") }
func (failingActor) Receive(*ReceiveContext)        {}
func (failingActor) PostStop(context.Context) error { return nil }

// panicky panics on any user message except testMessage
type panicky struct {
	out chan int
}

func (x *panicky) PreStart(context.Context) error { return nil }
func (x *panicky) PostStop(context.Context) error { return nil }
func (x *panicky) Receive(ctx *ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *testMessage:
		x.out <- msg.Seq
	case string:
		panic(msg)
	}
}
