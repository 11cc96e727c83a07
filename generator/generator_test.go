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

package generator

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/entitystore/actor"
	"github.com/tochemey/entitystore/address"
	"github.com/tochemey/entitystore/entity"
	"github.com/tochemey/entitystore/reporting"
	"github.com/tochemey/entitystore/sharding"
	"github.com/tochemey/entitystore/testkit"
)

type routed struct {
	key     string
	message any
	sender  *address.Address
}

// recordingRouter captures the messages sent by the generators
type recordingRouter struct {
	out chan routed
}

func (x *recordingRouter) Tell(_ context.Context, key string, message any, sender *address.Address) error {
	x.out <- routed{key: key, message: message, sender: sender}
	return nil
}

func expectRouted(t *testing.T, router *recordingRouter) routed {
	t.Helper()
	select {
	case received := <-router.out:
		return received
	case <-time.After(3 * time.Second):
		t.Fatal("no message routed")
		return routed{}
	}
}

func TestPicker(t *testing.T) {
	t.Run("With reproducible sequence", func(t *testing.T) {
		picker1 := NewPicker(42, 2551, 50)
		picker2 := NewPicker(42, 2551, 50)
		for range 100 {
			assert.Equal(t, picker1.Next(), picker2.Next())
		}
	})
	t.Run("With inclusive index range", func(t *testing.T) {
		picker := NewPicker(7, 2552, 3)
		seen := make(map[int]bool)
		for range 1000 {
			key := picker.Next()
			index, ok := strings.CutPrefix(key, "2552-")
			require.True(t, ok)
			n, err := strconv.Atoi(index)
			require.NoError(t, err)
			require.GreaterOrEqual(t, n, 0)
			require.LessOrEqual(t, n, 3)
			seen[n] = true
		}
		assert.Len(t, seen, 4)
	})
	t.Run("With no entity configured", func(t *testing.T) {
		assert.Equal(t, "2551-0", NewPicker(1, 2551, 0).Next())
	})
}

func TestCommand(t *testing.T) {
	ctx := context.Background()
	system := testkit.NewActorSystem(t, 2551)
	router := &recordingRouter{out: make(chan routed, 64)}

	pid, err := system.Spawn(ctx, CommandName, NewCommand(router, NewPicker(1, 2551, 50), 20*time.Millisecond))
	require.NoError(t, err)

	for range 3 {
		received := expectRouted(t, router)
		command, ok := received.message.(*entity.ChangeValue)
		require.True(t, ok)
		assert.Equal(t, received.key, command.ID)
		assert.True(t, strings.HasPrefix(command.ID, "2551-"))
		assert.Zero(t, command.Amount)
		_, err := time.Parse(time.RFC3339Nano, command.Value)
		assert.NoError(t, err)
		assert.True(t, pid.Address().Equals(command.ReplyTo))
		assert.True(t, pid.Address().Equals(received.sender))
	}

	require.NoError(t, pid.Shutdown(ctx))
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	system := testkit.NewActorSystem(t, 2551)
	router := &recordingRouter{out: make(chan routed, 64)}

	pid, err := system.Spawn(ctx, QueryName, NewQuery(router, NewPicker(1, 2551, 50), 20*time.Millisecond))
	require.NoError(t, err)

	received := expectRouted(t, router)
	query, ok := received.message.(*entity.GetValue)
	require.True(t, ok)
	assert.Equal(t, received.key, query.ID)
	assert.True(t, pid.Address().Equals(query.ReplyTo))

	require.NoError(t, pid.Shutdown(ctx))
}

func TestGeneratorsThroughRegion(t *testing.T) {
	ctx := context.Background()
	system := testkit.NewActorSystem(t, 2551)

	sink := &actionSink{actions: make(chan *reporting.EntityAction, 256)}
	_, err := system.Spawn(ctx, reporting.ReporterName, reporting.NewReporter(sink))
	require.NoError(t, err)

	factory := func(key string) actor.Actor { return entity.New(key, sharding.DefaultNumberOfShards) }
	_, err = system.Spawn(ctx, sharding.RegionName, sharding.NewRegion(factory, nil))
	require.NoError(t, err)

	router := sharding.NewRouter(system, sharding.RegionName)
	_, err = system.Spawn(ctx, CommandName, NewCommand(router, NewPicker(3, 2551, 0), 20*time.Millisecond))
	require.NoError(t, err)
	_, err = system.Spawn(ctx, QueryName, NewQuery(router, NewPicker(4, 2551, 0), 20*time.Millisecond))
	require.NoError(t, err)

	// a single key: one start then pings only
	starts, pings := 0, 0
	deadline := time.After(5 * time.Second)
	for pings < 5 {
		select {
		case action := <-sink.actions:
			assert.Equal(t, "2551-0", action.EntityKey)
			switch action.Action {
			case reporting.ActionStart:
				starts++
			case reporting.ActionPing:
				pings++
			}
		case <-deadline:
			t.Fatal("not enough entity notifications")
		}
	}
	assert.Equal(t, 1, starts)
}

type actionSink struct {
	actions chan *reporting.EntityAction
}

func (x *actionSink) ReportEntityAction(_ context.Context, action *reporting.EntityAction) error {
	x.actions <- action
	return nil
}

func (x *actionSink) ReportStatistics(context.Context, *reporting.SingletonStatistics) error {
	return nil
}

func (x *actionSink) Close() error {
	return nil
}
