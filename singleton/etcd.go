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
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"
	"go.uber.org/multierr"

	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/internal/validation"
)

// EtcdConfig configures the EtcdElector
type EtcdConfig struct {
	// Endpoints are the etcd client endpoints
	Endpoints []string
	// DialTimeout bounds the connection to etcd
	DialTimeout time.Duration
	// Key is the election key prefix
	Key string
	// TTL is the lease time-to-live. The leadership is lost when the
	// leader does not renew its lease within the TTL.
	TTL time.Duration
}

// Validate checks the configuration
func (x *EtcdConfig) Validate() error {
	return validation.New(validation.FailFast()).
		AddAssertion(len(x.Endpoints) > 0, "etcd endpoints are required").
		AddValidator(validation.NewEmptyStringValidator("key", x.Key)).
		AddAssertion(x.TTL >= time.Second, "etcd lease ttl must be at least one second").
		Validate()
}

// EtcdElector elects the leader with an etcd election.
// Candidates hold their leadership through a session lease kept alive by
// the etcd client.
type EtcdElector struct {
	client     *clientv3.Client
	key        string
	ttl        time.Duration
	ownsClient bool
}

var _ Elector = (*EtcdElector)(nil)

// NewEtcdElector connects to etcd and creates an EtcdElector
func NewEtcdElector(config *EtcdConfig) (*EtcdElector, error) {
	if config == nil {
		return nil, errors.New("singleton: etcd config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   config.Endpoints,
		DialTimeout: config.DialTimeout,
	})
	if err != nil {
		return nil, err
	}

	elector := NewEtcdElectorWithClient(client, config.Key, config.TTL)
	elector.ownsClient = true
	return elector, nil
}

// NewEtcdElectorWithClient creates an EtcdElector using an existing client.
// The client is not closed by Close.
func NewEtcdElectorWithClient(client *clientv3.Client, key string, ttl time.Duration) *EtcdElector {
	return &EtcdElector{
		client: client,
		key:    key,
		ttl:    max(ttl, time.Second),
	}
}

// Campaign implements Elector
func (x *EtcdElector) Campaign(ctx context.Context, candidate string) (Lease, error) {
	session, err := concurrency.NewSession(x.client, concurrency.WithTTL(int(x.ttl.Seconds())))
	if err != nil {
		return nil, err
	}

	election := concurrency.NewElection(session, x.key)
	if err := election.Campaign(ctx, candidate); err != nil {
		return nil, multierr.Append(err, session.Close())
	}
	return &etcdLease{session: session, election: election}, nil
}

// Leader implements Elector
func (x *EtcdElector) Leader(ctx context.Context) (string, error) {
	resp, err := x.client.Get(ctx, x.key+"/", clientv3.WithFirstCreate()...)
	if err != nil {
		return "", err
	}

	if len(resp.Kvs) == 0 {
		return "", gerrors.ErrLeaderNotFound
	}
	return string(resp.Kvs[0].Value), nil
}

// Close closes the etcd client when the elector created it
func (x *EtcdElector) Close() error {
	if !x.ownsClient {
		return nil
	}
	return x.client.Close()
}

type etcdLease struct {
	session  *concurrency.Session
	election *concurrency.Election
}

func (x *etcdLease) Done() <-chan struct{} {
	return x.session.Done()
}

func (x *etcdLease) Resign(ctx context.Context) error {
	return multierr.Append(x.election.Resign(ctx), x.session.Close())
}
