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

package entity

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/entitystore/actor"
	"github.com/tochemey/entitystore/address"
	"github.com/tochemey/entitystore/reporting"
	"github.com/tochemey/entitystore/sharding"
	"github.com/tochemey/entitystore/testkit"
)

// channelSink pushes entity notifications to a channel
type channelSink struct {
	actions chan *reporting.EntityAction
}

func (x *channelSink) ReportEntityAction(_ context.Context, action *reporting.EntityAction) error {
	x.actions <- action
	return nil
}

func (x *channelSink) ReportStatistics(context.Context, *reporting.SingletonStatistics) error {
	return nil
}

func (x *channelSink) Close() error {
	return nil
}

func (x *channelSink) expect(t *testing.T, action string) *reporting.EntityAction {
	t.Helper()
	select {
	case received := <-x.actions:
		require.Equal(t, action, received.Action)
		return received
	case <-time.After(3 * time.Second):
		t.Fatalf("no %s notification", action)
		return nil
	}
}

func setup(t *testing.T, key string) (actor.ActorSystem, *actor.PID, *channelSink) {
	t.Helper()
	ctx := context.Background()
	system := testkit.NewActorSystem(t, 2551)

	sink := &channelSink{actions: make(chan *reporting.EntityAction, 16)}
	_, err := system.Spawn(ctx, reporting.ReporterName, reporting.NewReporter(sink))
	require.NoError(t, err)

	pid, err := system.Spawn(ctx, "entity-"+key, New(key, 100))
	require.NoError(t, err)
	return system, pid, sink
}

func TestEntity(t *testing.T) {
	t.Run("With first write initializing the state", func(t *testing.T) {
		ctx := context.Background()
		key := ID(2551, 1)
		system, pid, sink := setup(t, key)
		probe := testkit.NewProbe(ctx, t, system)

		require.NoError(t, actor.Tell(ctx, pid, &ChangeValue{ID: key, Value: "v1", Amount: 5, ReplyTo: probe.Address()}))
		probe.ExpectMessage(&ChangeValueAck{Action: ActionInitialize, ID: key, Value: "v1", Amount: 5})

		start := sink.expect(t, reporting.ActionStart)
		assert.Equal(t, key, start.EntityKey)
		assert.Equal(t, ShardID(key, 100), start.ShardID)
		assert.Equal(t, "127.0.0.1:2551", start.OwnerID)
		require.NotNil(t, start.Address)
		assert.Equal(t, "entitystore://cluster@127.0.0.1:2551", *start.Address)

		require.NoError(t, actor.Tell(ctx, pid, &ChangeValue{ID: key, Value: "v2", Amount: -3, ReplyTo: probe.Address()}))
		probe.ExpectMessage(&ChangeValueAck{Action: ActionUpdate, ID: key, Value: "v2", Amount: -3})
		sink.expect(t, reporting.ActionPing)

		require.NoError(t, actor.Tell(ctx, pid, &GetValue{ID: key, ReplyTo: probe.Address()}))
		probe.ExpectMessage(&GetValueAck{ID: key, Value: "v2", Amount: -3})
		sink.expect(t, reporting.ActionPing)
	})
	t.Run("With first read initializing an empty state", func(t *testing.T) {
		ctx := context.Background()
		key := ID(2551, 2)
		system, pid, sink := setup(t, key)
		probe := testkit.NewProbe(ctx, t, system)

		require.NoError(t, actor.Tell(ctx, pid, &GetValue{ID: key, ReplyTo: probe.Address()}))
		probe.ExpectMessage(&GetValueAckNotFound{ID: key})
		sink.expect(t, reporting.ActionStart)

		require.NoError(t, actor.Tell(ctx, pid, &GetValue{ID: key, ReplyTo: probe.Address()}))
		probe.ExpectMessage(&GetValueAck{ID: key, Value: "", Amount: 0})
		sink.expect(t, reporting.ActionPing)

		require.NoError(t, actor.Tell(ctx, pid, &ChangeValue{ID: key, Value: "later", Amount: 1, ReplyTo: probe.Address()}))
		probe.ExpectMessage(&ChangeValueAck{Action: ActionUpdate, ID: key, Value: "later", Amount: 1})
		sink.expect(t, reporting.ActionPing)
	})
	t.Run("With remote sender address", func(t *testing.T) {
		ctx := context.Background()
		key := ID(2552, 3)
		_, pid, sink := setup(t, key)

		replyTo := address.New("command", "cluster", "10.0.0.7", 2552)
		require.NoError(t, actor.Tell(ctx, pid, &ChangeValue{ID: key, Value: "v", ReplyTo: replyTo}))

		start := sink.expect(t, reporting.ActionStart)
		require.NotNil(t, start.Address)
		assert.Equal(t, "entitystore://cluster@10.0.0.7:2552", *start.Address)
	})
	t.Run("With no reply address", func(t *testing.T) {
		ctx := context.Background()
		key := ID(2551, 4)
		_, pid, sink := setup(t, key)

		require.NoError(t, actor.Tell(ctx, pid, &GetValue{ID: key}))
		start := sink.expect(t, reporting.ActionStart)
		require.NotNil(t, start.Address)
		assert.Equal(t, start.OwnerID, *start.Address)
		assert.Equal(t, "127.0.0.1:2551", *start.Address)
	})
	t.Run("With passivation", func(t *testing.T) {
		ctx := context.Background()
		key := ID(2551, 5)
		system, pid, sink := setup(t, key)
		probe := testkit.NewProbe(ctx, t, system)

		require.NoError(t, actor.Tell(ctx, pid, &ChangeValue{ID: key, Value: "v", ReplyTo: probe.Address()}))
		probe.ExpectMessageOfType(reflect.TypeOf(new(ChangeValueAck)))
		sink.expect(t, reporting.ActionStart)

		require.NoError(t, actor.Tell(ctx, pid, new(Passivate)))
		// enqueued behind Passivate, never handled by this instance
		_ = actor.Tell(ctx, pid, &GetValue{ID: key, ReplyTo: probe.Address()})

		stop := sink.expect(t, reporting.ActionStop)
		assert.Nil(t, stop.Address)
		assert.Equal(t, key, stop.EntityKey)

		require.Eventually(t, func() bool { return !pid.IsRunning() }, time.Second, 10*time.Millisecond)
		probe.ExpectNoMessage()

		fresh, err := system.Spawn(ctx, "entity-"+key, New(key, 100))
		require.NoError(t, err)
		require.NoError(t, actor.Tell(ctx, fresh, &GetValue{ID: key, ReplyTo: probe.Address()}))
		probe.ExpectMessage(&GetValueAckNotFound{ID: key})
	})
	t.Run("With unhandled message", func(t *testing.T) {
		ctx := context.Background()
		key := ID(2551, 6)
		system, pid, _ := setup(t, key)
		probe := testkit.NewProbe(ctx, t, system)

		require.NoError(t, actor.Tell(ctx, pid, "unknown"))
		probe.ExpectNoMessage()
		assert.True(t, pid.IsRunning())
	})
}

func TestEntityThroughRouter(t *testing.T) {
	ctx := context.Background()
	system := testkit.NewActorSystem(t, 2551)

	sink := &channelSink{actions: make(chan *reporting.EntityAction, 16)}
	_, err := system.Spawn(ctx, reporting.ReporterName, reporting.NewReporter(sink))
	require.NoError(t, err)

	region, err := system.Spawn(ctx, sharding.RegionName, sharding.NewRegion(
		func(key string) actor.Actor { return New(key, 100) },
		nil,
		sharding.WithStopMessage(new(Passivate))))
	require.NoError(t, err)

	router := sharding.NewRouter(system, sharding.RegionName)
	probe := testkit.NewProbe(ctx, t, system)
	key := ID(2551, 1)

	require.NoError(t, router.Tell(ctx, key, &ChangeValue{ID: key, Value: "v1", Amount: 10, ReplyTo: probe.Address()}, probe.Address()))
	probe.ExpectMessage(&ChangeValueAck{Action: ActionInitialize, ID: key, Value: "v1", Amount: 10})
	sink.expect(t, reporting.ActionStart)

	require.NoError(t, router.Tell(ctx, key, &GetValue{ID: key, ReplyTo: probe.Address()}, probe.Address()))
	probe.ExpectMessage(&GetValueAck{ID: key, Value: "v1", Amount: 10})
	sink.expect(t, reporting.ActionPing)

	require.NoError(t, actor.Tell(ctx, region, new(sharding.PassivateAll)))
	stop := sink.expect(t, reporting.ActionStop)
	assert.Equal(t, key, stop.EntityKey)
	assert.Nil(t, stop.Address)

	// the state does not survive the passivation
	require.NoError(t, router.Tell(ctx, key, &GetValue{ID: key, ReplyTo: probe.Address()}, probe.Address()))
	probe.ExpectMessage(&GetValueAckNotFound{ID: key})
	sink.expect(t, reporting.ActionStart)
	assert.Len(t, region.Children(), 1)
}

func TestID(t *testing.T) {
	assert.Equal(t, "2551-0", ID(2551, 0))
	assert.Equal(t, "2552-50", ID(2552, 50))
	assert.Equal(t, ShardID("2551-7", 100), ShardID("2551-7", 100))
}

func TestStateString(t *testing.T) {
	var empty *State
	assert.Equal(t, "State[<empty>]", empty.String())
	assert.Equal(t, "State[id=2551-1, value=v, amount=2]", (&State{ID: "2551-1", Value: "v", Amount: 2}).String())
}
