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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"

	"github.com/tochemey/entitystore/address"
	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/log"
)

const (
	// DefaultSubjectPrefix is the default subject prefix
	DefaultSubjectPrefix = "entitystore"
	maxConnectRetries    = 5
)

// NATSTransport implements Transport on top of NATS core publish/subscribe.
// Each node subscribes to its own subject; delivery is at most once.
type NATSTransport struct {
	mu            sync.Mutex
	url           string
	prefix        string
	reconnectWait time.Duration
	serializer    Serializer
	logger        log.Logger
	conn          *nats.Conn
	subscription  *nats.Subscription
	started       *atomic.Bool
}

var _ Transport = (*NATSTransport)(nil)

// NewNATSTransport creates an instance of NATSTransport connecting to the given NATS url
func NewNATSTransport(url string, opts ...Option) *NATSTransport {
	transport := &NATSTransport{
		url:           url,
		prefix:        DefaultSubjectPrefix,
		reconnectWait: 2 * time.Second,
		serializer:    NewCBORSerializer(),
		logger:        log.DefaultLogger,
		started:       atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(transport)
	}
	return transport
}

// Start connects to NATS and subscribes to the node subject
func (x *NATSTransport) Start(ctx context.Context, node *address.Address, handler Handler) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.started.Load() {
		return nil
	}

	opts := nats.GetDefaultOptions()
	opts.Url = x.url
	opts.Name = node.HostPort()
	opts.ReconnectWait = x.reconnectWait
	opts.MaxReconnect = -1

	var conn *nats.Conn
	retrier := retry.NewRetrier(maxConnectRetries, 100*time.Millisecond, x.reconnectWait)
	if err := retrier.Run(func() error {
		var err error
		conn, err = opts.Connect()
		return err
	}); err != nil {
		return fmt.Errorf("failed to connect to nats at %s: %w", x.url, err)
	}

	// handlers outlive the start call
	deliveryCtx := context.WithoutCancel(ctx)
	subject := Subject(x.prefix, node)
	subscription, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		envelope, err := DecodeEnvelope(x.serializer, msg.Data)
		if err != nil {
			x.logger.Warnf("dropping undecodable message on %s: %v", msg.Subject, err)
			return
		}
		handler(deliveryCtx, envelope)
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	if err := conn.Flush(); err != nil {
		conn.Close()
		return err
	}

	x.conn = conn
	x.subscription = subscription
	x.started.Store(true)
	x.logger.Infof("remote transport listening on subject %s", subject)
	return nil
}

// Send publishes the envelope on the subject of the recipient node
func (x *NATSTransport) Send(_ context.Context, envelope *Envelope) error {
	if !x.started.Load() {
		return gerrors.ErrTransportNotStarted
	}

	bytea, err := EncodeEnvelope(x.serializer, envelope)
	if err != nil {
		return err
	}

	x.mu.Lock()
	conn := x.conn
	x.mu.Unlock()
	if conn == nil {
		return gerrors.ErrTransportNotStarted
	}

	return conn.Publish(Subject(x.prefix, envelope.To), bytea)
}

// Stop unsubscribes and closes the NATS connection
func (x *NATSTransport) Stop(context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Swap(false) {
		return nil
	}

	defer func() {
		x.conn.Close()
		x.conn = nil
		x.subscription = nil
	}()

	if x.subscription != nil && x.subscription.IsValid() {
		if err := x.subscription.Unsubscribe(); err != nil {
			return err
		}
	}
	return x.conn.Flush()
}
