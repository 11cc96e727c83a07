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
	"time"

	"github.com/tochemey/entitystore/address"
)

// PoisonPill is a control message used to gracefully stop an actor.
// It is enqueued like any other message, so it is only handled after all
// previously enqueued messages are processed.
type PoisonPill struct{}

// PostStart is delivered to an actor right after it has successfully started
type PostStart struct{}

// Terminated is sent to all actors watching a given actor when it has stopped.
type Terminated struct {
	address      *address.Address
	terminatedAt time.Time
}

// NewTerminated creates a new Terminated message stamped with the current UTC time.
func NewTerminated(addr *address.Address) *Terminated {
	return &Terminated{address: addr, terminatedAt: time.Now().UTC()}
}

// Address returns the address of the terminated actor.
func (t *Terminated) Address() *address.Address { return t.address }

// TerminatedAt returns the time the actor was terminated.
func (t *Terminated) TerminatedAt() time.Time { return t.terminatedAt }
