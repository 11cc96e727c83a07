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

package singleton

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/entitystore/cluster"
	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/log"
	"github.com/tochemey/entitystore/testkit"
)

func memberCreatedAt(port int, createdAt time.Time) *cluster.Member {
	member := cluster.NewMember("127.0.0.1", port)
	member.CreatedAt = createdAt
	return member
}

func TestOldest(t *testing.T) {
	now := time.Now().UTC()
	first := memberCreatedAt(2553, now.Add(-time.Minute))
	second := memberCreatedAt(2551, now)
	twin := memberCreatedAt(2552, now)

	assert.Nil(t, Oldest(nil))
	assert.Equal(t, first, Oldest([]*cluster.Member{second, first, twin}))
	assert.Equal(t, second, Oldest([]*cluster.Member{twin, second}))
}

func TestMembershipElector(t *testing.T) {
	t.Run("With the oldest member elected", func(t *testing.T) {
		ctx := context.Background()
		now := time.Now().UTC()
		older := memberCreatedAt(2551, now.Add(-time.Minute))
		self := memberCreatedAt(2552, now)

		membership := cluster.NewStatic(self, older)
		elector := NewMembershipElector(membership, "cluster")
		defer func() { _ = elector.Close() }()

		leader, err := elector.Leader(ctx)
		require.NoError(t, err)
		assert.Equal(t, "entitystore://cluster@127.0.0.1:2551", leader)

		candidate := "entitystore://cluster@127.0.0.1:2552"
		campaignCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = elector.Campaign(campaignCtx, candidate)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		// the leader leaves the cluster
		membership.Leave(older)
		lease, err := elector.Campaign(ctx, candidate)
		require.NoError(t, err)

		leader, err = elector.Leader(ctx)
		require.NoError(t, err)
		assert.Equal(t, candidate, leader)

		// an older member joins back
		membership.Join(memberCreatedAt(2550, now.Add(-time.Hour)))
		select {
		case <-lease.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("lease not revoked")
		}
	})
	t.Run("With the local member not Up", func(t *testing.T) {
		membership := cluster.NewStatic(cluster.NewMember("127.0.0.1", 2551))
		membership.SetStatus(cluster.Leaving)
		elector := NewMembershipElector(membership, "cluster")

		_, err := elector.Leader(context.Background())
		assert.ErrorIs(t, err, gerrors.ErrLeaderNotFound)
	})
	t.Run("With close", func(t *testing.T) {
		ctx := context.Background()
		now := time.Now().UTC()
		self := memberCreatedAt(2551, now)
		membership := cluster.NewStatic(self, memberCreatedAt(2552, now.Add(-time.Minute)))
		elector := NewMembershipElector(membership, "cluster")

		pending := make(chan error, 1)
		go func() {
			_, err := elector.Campaign(ctx, "entitystore://cluster@127.0.0.1:2551")
			pending <- err
		}()

		require.NoError(t, elector.Close())
		require.NoError(t, elector.Close())
		select {
		case err := <-pending:
			assert.ErrorIs(t, err, gerrors.ErrElectorClosed)
		case <-time.After(2 * time.Second):
			t.Fatal("campaign not failed on close")
		}

		_, err := elector.Leader(ctx)
		assert.ErrorIs(t, err, gerrors.ErrLeaderNotFound)
	})
	t.Run("With resign", func(t *testing.T) {
		ctx := context.Background()
		membership := cluster.NewStatic(cluster.NewMember("127.0.0.1", 2551))
		elector := NewMembershipElector(membership, "cluster")
		defer func() { _ = elector.Close() }()

		candidate := "entitystore://cluster@127.0.0.1:2551"
		lease, err := elector.Campaign(ctx, candidate)
		require.NoError(t, err)
		require.NoError(t, lease.Resign(ctx))
		require.NoError(t, lease.Resign(ctx))
		<-lease.Done()

		// still the oldest member
		_, err = elector.Campaign(ctx, candidate)
		require.NoError(t, err)
	})
	t.Run("With a manager per node", func(t *testing.T) {
		ctx := context.Background()
		now := time.Now().UTC()
		member1 := memberCreatedAt(2551, now.Add(-time.Minute))
		member2 := memberCreatedAt(2552, now)

		// each node has its own view of the same cluster
		membership1 := cluster.NewStatic(member1, member2)
		membership2 := cluster.NewStatic(member2, member1)
		elector1 := NewMembershipElector(membership1, "cluster")
		elector2 := NewMembershipElector(membership2, "cluster")
		defer func() { _ = elector1.Close() }()
		defer func() { _ = elector2.Close() }()

		system1 := testkit.NewActorSystem(t, 2551)
		system2 := testkit.NewActorSystem(t, 2552)

		opts := []Option{WithLogger(log.DiscardLogger), WithRetryInterval(10 * time.Millisecond)}
		manager1 := NewManager(system1, elector1, testRole, newIdle, opts...)
		manager2 := NewManager(system2, elector2, testRole, newIdle, opts...)
		require.NoError(t, manager1.Start(ctx))
		require.NoError(t, manager2.Start(ctx))

		require.Eventually(t, manager1.IsLeader, 2*time.Second, 10*time.Millisecond)
		time.Sleep(300 * time.Millisecond)
		assert.False(t, manager2.IsLeader())
		assert.False(t, running(system2))

		addr, err := NewProxy(elector2, testRole).Locate(ctx)
		require.NoError(t, err)
		assert.Equal(t, "entitystore://cluster@127.0.0.1:2551/"+testRole, addr.String())

		// the first node leaves the cluster
		require.NoError(t, manager1.Stop(ctx))
		membership2.Leave(member1)

		require.Eventually(t, manager2.IsLeader, 2*time.Second, 10*time.Millisecond)
		assert.True(t, running(system2))
		require.NoError(t, manager2.Stop(ctx))
	})
}
