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
)

// Actor defines the core interface for an actor.
//
// Actors are isolated units of computation that communicate exclusively via
// message passing. Each actor has its own mailbox and processes messages one
// at a time, so its state needs no explicit synchronization.
//
// The lifecycle of an actor follows three phases:
//  1. PreStart: setup logic before message handling begins
//  2. Receive: message handling loop
//  3. PostStop: cleanup logic after the actor is stopped
type Actor interface {
	// PreStart is invoked once before the actor begins processing any messages.
	// If an error is returned, the actor will fail to start.
	PreStart(ctx context.Context) error

	// Receive handles all messages sent to the actor's mailbox.
	// It is invoked sequentially per actor instance. Long-running or blocking
	// operations should be offloaded to separate goroutines.
	Receive(ctx *ReceiveContext)

	// PostStop is invoked after the actor has processed its final message.
	PostStop(ctx context.Context) error
}
