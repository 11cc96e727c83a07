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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/entitystore/errors"
)

// testElection checks the leadership guarantees shared by every Elector
func testElection(t *testing.T, elector Elector) {
	t.Helper()
	ctx := context.Background()

	_, err := elector.Leader(ctx)
	require.ErrorIs(t, err, gerrors.ErrLeaderNotFound)

	candidates := []string{
		"entitystore://cluster@127.0.0.1:2551",
		"entitystore://cluster@127.0.0.1:2552",
		"entitystore://cluster@127.0.0.1:2553",
	}

	campaignCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type elected struct {
		candidate string
		lease     Lease
	}
	leases := make(chan elected, len(candidates))

	var wg sync.WaitGroup
	for _, candidate := range candidates {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lease, err := elector.Campaign(campaignCtx, candidate)
			if err == nil {
				leases <- elected{candidate: candidate, lease: lease}
			}
		}()
	}

	var first elected
	select {
	case first = <-leases:
	case <-time.After(10 * time.Second):
		t.Fatal("no candidate elected")
	}

	// exactly one leader at a time
	select {
	case other := <-leases:
		t.Fatalf("%s elected while %s holds the leadership", other.candidate, first.candidate)
	case <-time.After(500 * time.Millisecond):
	}

	leader, err := elector.Leader(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.candidate, leader)

	require.NoError(t, first.lease.Resign(ctx))
	select {
	case <-first.lease.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("resigned lease not done")
	}

	var second elected
	select {
	case second = <-leases:
	case <-time.After(10 * time.Second):
		t.Fatal("no candidate re-elected")
	}
	assert.NotEqual(t, first.candidate, second.candidate)

	require.Eventually(t, func() bool {
		leader, err := elector.Leader(ctx)
		return err == nil && leader == second.candidate
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	wg.Wait()
	require.NoError(t, second.lease.Resign(ctx))
}

func TestLocalElector(t *testing.T) {
	t.Run("With election", func(t *testing.T) {
		elector := NewLocalElector()
		testElection(t, elector)
		require.NoError(t, elector.Close())
	})
	t.Run("With close", func(t *testing.T) {
		ctx := context.Background()
		elector := NewLocalElector()
		lease, err := elector.Campaign(ctx, "a")
		require.NoError(t, err)

		pending := make(chan error, 1)
		go func() {
			_, err := elector.Campaign(ctx, "b")
			pending <- err
		}()

		require.NoError(t, elector.Close())
		require.NoError(t, elector.Close())
		assert.ErrorIs(t, <-pending, gerrors.ErrElectorClosed)

		select {
		case <-lease.Done():
		default:
			t.Fatal("lease not revoked on close")
		}

		_, err = elector.Leader(ctx)
		assert.ErrorIs(t, err, gerrors.ErrLeaderNotFound)
	})
	t.Run("With canceled campaign", func(t *testing.T) {
		elector := NewLocalElector()
		_, err := elector.Campaign(context.Background(), "a")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err = elector.Campaign(ctx, "b")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
	t.Run("With stale resign", func(t *testing.T) {
		ctx := context.Background()
		elector := NewLocalElector()
		lease, err := elector.Campaign(ctx, "a")
		require.NoError(t, err)
		require.NoError(t, lease.Resign(ctx))

		_, err = elector.Campaign(ctx, "b")
		require.NoError(t, err)
		require.NoError(t, lease.Resign(ctx))

		leader, err := elector.Leader(ctx)
		require.NoError(t, err)
		assert.Equal(t, "b", leader)
	})
}

func TestElectorConfig(t *testing.T) {
	assert.Error(t, (&EtcdConfig{}).Validate())
	assert.Error(t, (&EtcdConfig{Endpoints: []string{"127.0.0.1:2379"}, Key: "k", TTL: time.Millisecond}).Validate())
	assert.NoError(t, (&EtcdConfig{Endpoints: []string{"127.0.0.1:2379"}, Key: "k", TTL: time.Second}).Validate())

	assert.Error(t, (&RedisConfig{Address: "localhost", Key: "k", TTL: time.Second}).Validate())
	assert.Error(t, (&RedisConfig{Address: "localhost:6379", TTL: time.Second}).Validate())
	assert.NoError(t, (&RedisConfig{Address: "localhost:6379", Key: "k", TTL: time.Second}).Validate())

	_, err := NewEtcdElector(nil)
	assert.Error(t, err)
	_, err = NewRedisElector(nil)
	assert.Error(t, err)
}
