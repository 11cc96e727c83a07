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
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/internal/validation"
)

var (
	renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)
)

// RedisConfig configures the RedisElector
type RedisConfig struct {
	// Address is the host:port of the redis server
	Address string
	// Password is the optional redis password
	Password string
	// DB is the redis database
	DB int
	// Key holds the leader identifier
	Key string
	// TTL is the expiry of the leader key
	TTL time.Duration
}

// Validate checks the configuration
func (x *RedisConfig) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewTCPAddressValidator(x.Address)).
		AddValidator(validation.NewEmptyStringValidator("key", x.Key)).
		AddAssertion(x.TTL > 0, "redis lease ttl must be positive").
		Validate()
}

// RedisElector elects the leader with an expiring redis key.
// The leader renews the key every third of its TTL; the leadership is lost
// when the key is taken over or cannot be renewed within the TTL.
type RedisElector struct {
	client     *redis.Client
	key        string
	ttl        time.Duration
	ownsClient bool
}

var _ Elector = (*RedisElector)(nil)

// NewRedisElector creates a RedisElector connected to the configured server
func NewRedisElector(config *RedisConfig) (*RedisElector, error) {
	if config == nil {
		return nil, errors.New("singleton: redis config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})

	elector := NewRedisElectorWithClient(client, config.Key, config.TTL)
	elector.ownsClient = true
	return elector, nil
}

// NewRedisElectorWithClient creates a RedisElector using an existing client.
// The client is not closed by Close.
func NewRedisElectorWithClient(client *redis.Client, key string, ttl time.Duration) *RedisElector {
	return &RedisElector{client: client, key: key, ttl: ttl}
}

// Campaign implements Elector
func (x *RedisElector) Campaign(ctx context.Context, candidate string) (Lease, error) {
	interval := x.ttl / 3
	for {
		acquired, err := x.client.SetNX(ctx, x.key, candidate, x.ttl).Result()
		if err == nil && acquired {
			lease := &redisLease{
				elector:   x,
				candidate: candidate,
				done:      make(chan struct{}),
				stop:      make(chan struct{}),
			}
			lease.wg.Add(1)
			go lease.keepAlive()
			return lease, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Leader implements Elector
func (x *RedisElector) Leader(ctx context.Context) (string, error) {
	leader, err := x.client.Get(ctx, x.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", gerrors.ErrLeaderNotFound
	}
	return leader, err
}

// Close closes the redis client when the elector created it
func (x *RedisElector) Close() error {
	if !x.ownsClient {
		return nil
	}
	return x.client.Close()
}

type redisLease struct {
	elector   *RedisElector
	candidate string
	done      chan struct{}
	stop      chan struct{}
	doneOnce  sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func (x *redisLease) Done() <-chan struct{} {
	return x.done
}

func (x *redisLease) Resign(ctx context.Context) error {
	x.stopOnce.Do(func() { close(x.stop) })
	x.wg.Wait()
	x.release()
	return releaseScript.Run(ctx, x.elector.client, []string{x.elector.key}, x.candidate).Err()
}

func (x *redisLease) release() {
	x.doneOnce.Do(func() { close(x.done) })
}

func (x *redisLease) keepAlive() {
	defer x.wg.Done()
	ticker := time.NewTicker(x.elector.ttl / 3)
	defer ticker.Stop()

	renewed := time.Now()
	for {
		select {
		case <-x.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), x.elector.ttl/3)
			result, err := renewScript.Run(ctx, x.elector.client, []string{x.elector.key}, x.candidate, x.elector.ttl.Milliseconds()).Int()
			cancel()

			switch {
			case err == nil && result == 1:
				renewed = time.Now()
			case err == nil, time.Since(renewed) >= x.elector.ttl:
				x.release()
				return
			}
		}
	}
}
