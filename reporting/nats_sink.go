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

package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/nats-io/nats.go"

	"github.com/tochemey/entitystore/remote"
)

// NATSSink publishes CBOR-framed notifications on a NATS subject.
// Subscribers decode them with remote.CBORSerializer.
type NATSSink struct {
	conn       *nats.Conn
	subject    string
	serializer remote.Serializer
}

var _ Sink = (*NATSSink)(nil)

// NewNATSSink connects to the NATS server at url
func NewNATSSink(url, subject string) (*NATSSink, error) {
	if subject == "" {
		return nil, errors.New("reporting: nats subject is required")
	}

	opts := nats.GetDefaultOptions()
	opts.Url = url
	opts.Name = "entitystore-reporting"
	opts.ReconnectWait = 2 * time.Second
	opts.MaxReconnect = -1

	var conn *nats.Conn
	retrier := retry.NewRetrier(5, 100*time.Millisecond, opts.ReconnectWait)
	if err := retrier.Run(func() error {
		var err error
		conn, err = opts.Connect()
		return err
	}); err != nil {
		return nil, err
	}

	return &NATSSink{
		conn:       conn,
		subject:    subject,
		serializer: remote.NewCBORSerializer(),
	}, nil
}

// ReportEntityAction publishes the notification
func (x *NATSSink) ReportEntityAction(_ context.Context, action *EntityAction) error {
	return x.publish(action)
}

// ReportStatistics publishes the notification
func (x *NATSSink) ReportStatistics(_ context.Context, stats *SingletonStatistics) error {
	return x.publish(stats)
}

// Close drains the connection
func (x *NATSSink) Close() error {
	if x.conn.IsClosed() || x.conn.IsDraining() {
		return nil
	}
	return x.conn.Drain()
}

func (x *NATSSink) publish(message any) error {
	bytea, err := x.serializer.Serialize(message)
	if err != nil {
		return err
	}
	return x.conn.Publish(x.subject, bytea)
}
