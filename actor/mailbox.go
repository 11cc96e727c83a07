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
	"sync"
	"sync/atomic"
)

// Mailbox defines the contract for an actor's message queue.
//
// Implementations must be safe for multiple concurrent producers calling
// Enqueue. The actor runtime consumes from a single goroutine. Dequeue must
// not block and returns nil when the mailbox is empty.
type Mailbox interface {
	// Enqueue pushes a message into the mailbox.
	Enqueue(msg *ReceiveContext) error
	// Dequeue fetches a message from the mailbox.
	Dequeue() (msg *ReceiveContext)
	// IsEmpty reports whether the mailbox currently has no messages.
	IsEmpty() bool
	// Len returns a snapshot of the number of messages in the mailbox.
	Len() int64
}

// node of the MPSC queue
type node struct {
	next atomic.Pointer[node]
	data *ReceiveContext
}

var nodePool = sync.Pool{New: func() any { return new(node) }}

// defaultMailbox is an unbounded, lock-free, multi-producer single-consumer FIFO queue.
type defaultMailbox struct {
	head  atomic.Pointer[node] // consumer only
	_pad1 [64]byte
	tail  atomic.Pointer[node] // producers only
	_pad2 [64]byte
}

var _ Mailbox = (*defaultMailbox)(nil)

// newDefaultMailbox starts the queue with a stub node so that producers can
// append by swapping tail and linking through the previous node.
func newDefaultMailbox() *defaultMailbox {
	stub := nodePool.Get().(*node)
	stub.next.Store(nil)
	stub.data = nil
	m := &defaultMailbox{}
	m.head.Store(stub)
	m.tail.Store(stub)
	return m
}

// Enqueue never blocks and always returns nil.
func (m *defaultMailbox) Enqueue(value *ReceiveContext) error {
	n := nodePool.Get().(*node)
	n.data = value
	prev := m.tail.Swap(n)
	prev.next.Store(n)
	return nil
}

// Dequeue must be called by a single consumer goroutine.
func (m *defaultMailbox) Dequeue() *ReceiveContext {
	head := m.head.Load()
	next := head.next.Load()
	if next == nil {
		return nil
	}

	m.head.Store(next)
	value := next.data
	next.data = nil

	head.next.Store(nil)
	nodePool.Put(head)
	return value
}

// Len performs an O(n) traversal and is intended for diagnostics.
func (m *defaultMailbox) Len() int64 {
	var count int64
	for n := m.head.Load().next.Load(); n != nil; n = n.next.Load() {
		count++
	}
	return count
}

// IsEmpty is an O(1) check
func (m *defaultMailbox) IsEmpty() bool {
	return m.head.Load().next.Load() == nil
}
