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

// Package singleton runs an actor on exactly one node of the cluster.
//
// The node holding the role is chosen by an Elector. A Manager campaigns on
// every node and spawns the singleton actor once its node is elected; a
// Proxy resolves the address of the current instance.
package singleton

import "context"

// Elector elects a single leader among the candidates of a role
type Elector interface {
	// Campaign blocks until the candidate is elected or the context is done.
	// The returned Lease tracks the leadership.
	Campaign(ctx context.Context, candidate string) (Lease, error)
	// Leader returns the current leader. It returns errors.ErrLeaderNotFound
	// when no candidate holds the leadership.
	Leader(ctx context.Context) (string, error)
	// Close releases the elector resources
	Close() error
}

// Lease is the leadership held by an elected candidate
type Lease interface {
	// Done is closed when the leadership is lost
	Done() <-chan struct{}
	// Resign gives up the leadership
	Resign(ctx context.Context) error
}
