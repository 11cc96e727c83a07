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

package remote

import (
	"time"

	"github.com/tochemey/entitystore/log"
)

// Option is the interface that applies a transport option.
type Option interface {
	// Apply sets the Option value of a transport.
	Apply(transport *NATSTransport)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*NATSTransport)

// Apply applies the option
func (f OptionFunc) Apply(transport *NATSTransport) {
	f(transport)
}

// WithLogger sets the transport logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(transport *NATSTransport) {
		transport.logger = logger
	})
}

// WithSubjectPrefix sets the subject prefix
func WithSubjectPrefix(prefix string) Option {
	return OptionFunc(func(transport *NATSTransport) {
		transport.prefix = prefix
	})
}

// WithSerializer sets the message serializer
func WithSerializer(serializer Serializer) Option {
	return OptionFunc(func(transport *NATSTransport) {
		transport.serializer = serializer
	})
}

// WithReconnectWait sets the wait between reconnection attempts.
// It also caps the backoff used while establishing the first connection.
func WithReconnectWait(wait time.Duration) Option {
	return OptionFunc(func(transport *NATSTransport) {
		transport.reconnectWait = wait
	})
}
