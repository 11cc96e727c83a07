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
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRedisElector(t *testing.T) {
	endpoint := startRedis(t)

	t.Run("With election", func(t *testing.T) {
		elector, err := NewRedisElector(&RedisConfig{
			Address: endpoint,
			Key:     "entitystore:singleton:election",
			TTL:     time.Second,
		})
		require.NoError(t, err)
		testElection(t, elector)
		require.NoError(t, elector.Close())
	})
	t.Run("With lost leadership", func(t *testing.T) {
		ctx := context.Background()
		elector, err := NewRedisElector(&RedisConfig{
			Address: endpoint,
			Key:     "entitystore:singleton:takeover",
			TTL:     time.Second,
		})
		require.NoError(t, err)
		defer func() { _ = elector.Close() }()

		lease, err := elector.Campaign(ctx, "a")
		require.NoError(t, err)

		// another process overwrites the key
		require.NoError(t, elector.client.Set(ctx, elector.key, "b", time.Minute).Err())

		select {
		case <-lease.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("lease not lost")
		}

		require.NoError(t, lease.Resign(ctx))
		leader, err := elector.Leader(ctx)
		require.NoError(t, err)
		assert.Equal(t, "b", leader)
	})
}
