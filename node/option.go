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

package node

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/entitystore/log"
	"github.com/tochemey/entitystore/reporting"
	"github.com/tochemey/entitystore/singleton"
)

// Option configures a Node
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*Node)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Node)

// Apply applies the Node's option
func (f OptionFunc) Apply(node *Node) {
	f(node)
}

// WithLogger sets the node logger. It replaces the logger built from the
// configured log level.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(node *Node) {
		node.logger = logger
	})
}

// WithMeter sets the meter of the metrics reporting sink
func WithMeter(meter metric.Meter) Option {
	return OptionFunc(func(node *Node) {
		node.meter = meter
	})
}

// WithElector sets the singleton elector instead of the configured one.
// The node does not close an elector it does not own.
func WithElector(elector singleton.Elector) Option {
	return OptionFunc(func(node *Node) {
		node.elector = elector
		node.ownsElector = false
	})
}

// WithSinks adds reporting sinks to the default ones
func WithSinks(sinks ...reporting.Sink) Option {
	return OptionFunc(func(node *Node) {
		node.sinks = append(node.sinks, sinks...)
	})
}

// WithSeed sets the seed of the generators key pickers
func WithSeed(seed uint64) Option {
	return OptionFunc(func(node *Node) {
		node.seed = seed
	})
}
