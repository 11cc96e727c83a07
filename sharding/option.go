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

package sharding

import "time"

// Option is the interface that applies a region configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(region *Region)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Region)

// Apply applies the option
func (f OptionFunc) Apply(r *Region) {
	f(r)
}

// WithNumberOfShards sets the number of shards keys are partitioned into.
// Every node of the cluster must use the same value.
func WithNumberOfShards(shards int) Option {
	return OptionFunc(func(r *Region) {
		r.shards = shards
	})
}

// WithVirtualPoints sets the number of points every node owns on the ring
func WithVirtualPoints(points int) Option {
	return OptionFunc(func(r *Region) {
		r.points = points
	})
}

// WithIdleTimeout sets the duration after which an entity that has not
// handled any message is passivated. Zero disables idle passivation.
func WithIdleTimeout(timeout time.Duration) Option {
	return OptionFunc(func(r *Region) {
		r.idleTimeout = timeout
	})
}

// WithStopMessage sets the message sent to an entity to passivate it.
// Without one the entity is stopped directly.
func WithStopMessage(message any) Option {
	return OptionFunc(func(r *Region) {
		r.stopMessage = message
	})
}
