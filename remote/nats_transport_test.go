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
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/entitystore/address"
	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/log"
)

func startNatsServer(t *testing.T) *natsserver.Server {
	t.Helper()
	serv, err := natsserver.NewServer(&natsserver.Options{
		Host: "127.0.0.1",
		Port: -1,
	})
	require.NoError(t, err)

	ready := make(chan bool)
	go func() {
		ready <- true
		serv.Start()
	}()
	<-ready

	if !serv.ReadyForConnections(2 * time.Second) {
		t.Fatalf("nats-io server failed to start")
	}
	return serv
}

func TestNATSTransport(t *testing.T) {
	RegisterSerializableTypes(new(testRequest))
	srv := startNatsServer(t)
	defer srv.Shutdown()

	ctx := context.Background()
	node1 := address.New("", "cluster", "127.0.0.1", 2551)
	node2 := address.New("", "cluster", "127.0.0.1", 2552)

	sender := NewNATSTransport(srv.ClientURL(), WithLogger(log.DiscardLogger), WithSubjectPrefix("test"))
	receiver := NewNATSTransport(srv.ClientURL(), WithLogger(log.DiscardLogger), WithSubjectPrefix("test"))

	received := make(chan *Envelope, 1)
	require.NoError(t, sender.Start(ctx, node1, func(context.Context, *Envelope) {}))
	require.NoError(t, receiver.Start(ctx, node2, func(_ context.Context, envelope *Envelope) {
		received <- envelope
	}))

	to := node2.WithName("shard-region")
	from := node1.WithName("shard-region")
	require.NoError(t, sender.Send(ctx, &Envelope{To: to, From: from, Message: &testRequest{ID: "2551-9", Amount: 1}}))

	select {
	case envelope := <-received:
		assert.True(t, to.Equals(envelope.To))
		assert.True(t, from.Equals(envelope.From))
		assert.Equal(t, "2551-9", envelope.Message.(*testRequest).ID)
	case <-time.After(5 * time.Second):
		t.Fatal("envelope not delivered")
	}

	assert.NoError(t, sender.Stop(ctx))
	assert.NoError(t, receiver.Stop(ctx))
	assert.NoError(t, receiver.Stop(ctx))

	err := sender.Send(ctx, &Envelope{To: to, Message: &testRequest{}})
	assert.ErrorIs(t, err, gerrors.ErrTransportNotStarted)
}

func TestSubject(t *testing.T) {
	node := address.New("aggregator", "cluster", "127.0.0.1", 2551)
	assert.Equal(t, "entitystore.cluster.127_0_0_1_2551", Subject(DefaultSubjectPrefix, node))
}
