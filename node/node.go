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

// Package node assembles the components run by one entitystore process:
// the actor system, the cluster membership, the shard region hosting the
// entities, the statistics singleton and the traffic generators.
package node

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tochemey/entitystore/actor"
	"github.com/tochemey/entitystore/cluster"
	"github.com/tochemey/entitystore/config"
	"github.com/tochemey/entitystore/entity"
	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/generator"
	"github.com/tochemey/entitystore/log"
	"github.com/tochemey/entitystore/remote"
	"github.com/tochemey/entitystore/reporting"
	"github.com/tochemey/entitystore/sharding"
	"github.com/tochemey/entitystore/singleton"
	"github.com/tochemey/entitystore/stats"
)

const (
	// MeterName is the name of the otel meter used by the metrics sink
	MeterName = "entitystore"

	electionKey         = "entitystore/singleton/"
	passivationTimeout  = 10 * time.Second
	passivationInterval = 10 * time.Millisecond
)

// Node runs the entitystore components of a single process
type Node struct {
	config      *config.Config
	logger      log.Logger
	meter       metric.Meter
	elector     singleton.Elector
	ownsElector bool
	sinks       []reporting.Sink
	seed        uint64

	mu         sync.Mutex
	system     actor.ActorSystem
	membership *cluster.Node
	manager    *singleton.Manager
	region     *actor.PID
	stopEvents chan struct{}
	eventsDone chan struct{}
	started    *atomic.Bool
}

// New creates a Node from a validated configuration
func New(cfg *config.Config, opts ...Option) (*Node, error) {
	if cfg == nil {
		return nil, errors.New("node: configuration is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	node := &Node{
		config:      cfg,
		logger:      log.NewZap(cfg.LogLevel()),
		ownsElector: true,
		seed:        uint64(time.Now().UnixNano()),
		started:     atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(node)
	}

	if node.meter == nil {
		node.meter = otel.GetMeterProvider().Meter(MeterName)
	}
	return node, nil
}

// Start starts the node components in dependency order. When a component
// fails to start the ones already started are stopped.
func (x *Node) Start(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.started.Load() {
		return nil
	}

	var rollbacks []func(context.Context) error
	rollback := func(err error) error {
		for i := len(rollbacks) - 1; i >= 0; i-- {
			err = multierr.Append(err, rollbacks[i](ctx))
		}
		return err
	}

	cfg := x.config
	self := cluster.NewMember(cfg.Cluster.Host, cfg.Port)
	membership, err := cluster.NewNode(self, cfg.Cluster.Seeds, cluster.WithLogger(x.logger))
	if err != nil {
		return err
	}

	transport := remote.NewNATSTransport(cfg.NATS.URL,
		remote.WithLogger(x.logger),
		remote.WithSubjectPrefix(cfg.NATS.SubjectPrefix))

	system, err := actor.NewActorSystem(cfg.Cluster.Name,
		actor.WithLogger(x.logger),
		actor.WithAddress(cfg.Cluster.Host, cfg.Port),
		actor.WithRemoting(transport))
	if err != nil {
		return err
	}

	if err := system.Start(ctx); err != nil {
		return err
	}
	rollbacks = append(rollbacks, system.Stop)

	if err := membership.Start(ctx); err != nil {
		return rollback(err)
	}
	rollbacks = append(rollbacks, membership.Stop)

	sinks, err := x.newSinks()
	if err != nil {
		return rollback(err)
	}

	if _, err := system.Spawn(ctx, reporting.ReporterName, reporting.NewReporter(sinks...)); err != nil {
		return rollback(multierr.Append(err, closeSinks(sinks)))
	}

	shards := cfg.Sharding.NumberOfShards
	region, err := system.Spawn(ctx, sharding.RegionName, sharding.NewRegion(
		func(key string) actor.Actor { return entity.New(key, shards) },
		membership,
		sharding.WithNumberOfShards(shards),
		sharding.WithIdleTimeout(cfg.Passivation.IdleTimeout),
		sharding.WithStopMessage(new(entity.Passivate))))
	if err != nil {
		return rollback(err)
	}

	x.stopEvents = make(chan struct{})
	x.eventsDone = make(chan struct{})
	go x.watchMembership(membership, region)
	rollbacks = append(rollbacks, func(context.Context) error {
		x.stopWatchingMembership()
		return nil
	})

	if x.elector == nil {
		elector, err := x.newElector(membership)
		if err != nil {
			return rollback(err)
		}
		x.elector = elector
	}

	if x.ownsElector {
		rollbacks = append(rollbacks, func(context.Context) error {
			elector := x.elector
			x.elector = nil
			return elector.Close()
		})
	}

	manager := singleton.NewManager(system, x.elector, stats.AggregatorRole,
		func() actor.Actor { return stats.NewAggregator() },
		singleton.WithLogger(x.logger))
	if err := manager.Start(ctx); err != nil {
		return rollback(err)
	}
	rollbacks = append(rollbacks, manager.Stop)

	proxy := singleton.NewProxy(x.elector, stats.AggregatorRole)
	router := sharding.NewRouter(system, sharding.RegionName)
	actors := map[string]actor.Actor{
		stats.PingerName: stats.NewPinger(proxy, membership),
		generator.CommandName: generator.NewCommand(router,
			generator.NewPicker(x.seed, cfg.Port, cfg.EntityActor.EntitiesPerNode),
			cfg.EntityActor.CommandTickInterval),
		generator.QueryName: generator.NewQuery(router,
			generator.NewPicker(x.seed+1, cfg.Port, cfg.EntityActor.EntitiesPerNode),
			cfg.EntityActor.QueryTickInterval),
	}

	for name, instance := range actors {
		if _, err := system.Spawn(ctx, name, instance); err != nil {
			return rollback(fmt.Errorf("failed to spawn %s: %w", name, err))
		}
	}

	x.system = system
	x.membership = membership
	x.manager = manager
	x.region = region
	x.started.Store(true)
	x.logger.Infof("node %s started", self.ID())
	return nil
}

// Stop stops the traffic generators, passivates the local entities so their
// stop notifications are reported, then stops the remaining components.
func (x *Node) Stop(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return nil
	}

	var err error
	for _, name := range []string{generator.CommandName, generator.QueryName, stats.PingerName} {
		if e := x.system.Kill(ctx, name); e != nil && !errors.Is(e, gerrors.ErrActorNotFound) {
			err = multierr.Append(err, e)
		}
	}

	err = multierr.Append(err, x.passivateAll(ctx))
	err = multierr.Append(err, x.manager.Stop(ctx))
	x.stopWatchingMembership()
	err = multierr.Append(err, x.system.Stop(ctx))
	err = multierr.Append(err, x.membership.Stop(ctx))
	if x.ownsElector {
		err = multierr.Append(err, x.elector.Close())
		x.elector = nil
	}

	x.started.Store(false)
	x.logger.Infof("node %s stopped", x.config.NodeID())
	return multierr.Append(err, x.logger.Flush())
}

// System returns the node actor system
func (x *Node) System() actor.ActorSystem {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.system
}

// Membership returns the node cluster membership
func (x *Node) Membership() cluster.Membership {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.membership
}

// IsLeader reports whether the node runs the statistics aggregator
func (x *Node) IsLeader() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.manager != nil && x.manager.IsLeader()
}

// passivateAll stops every local entity and waits for them to terminate
func (x *Node) passivateAll(ctx context.Context) error {
	if err := actor.Tell(ctx, x.region, new(sharding.Drain)); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, passivationTimeout)
	defer cancel()

	ticker := time.NewTicker(passivationInterval)
	defer ticker.Stop()

	for len(x.region.Children()) > 0 {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return fmt.Errorf("failed to passivate %d entities: %w", len(x.region.Children()), ctx.Err())
		}
	}
	return nil
}

// watchMembership rebuilds the region ring on every membership change
func (x *Node) watchMembership(membership *cluster.Node, region *actor.PID) {
	defer close(x.eventsDone)
	for {
		select {
		case event := <-membership.Events():
			x.logger.Infof("member %s %s", event.Member.ID(), event.Type)
			message := &sharding.MembersChanged{Members: membership.Members()}
			if err := actor.Tell(context.Background(), region, message); err != nil {
				x.logger.Warnf("failed to notify the region of %s: %v", event.Type, err)
			}
		case <-x.stopEvents:
			return
		}
	}
}

func (x *Node) stopWatchingMembership() {
	if x.stopEvents == nil {
		return
	}
	close(x.stopEvents)
	<-x.eventsDone
	x.stopEvents = nil
}

func (x *Node) newSinks() ([]reporting.Sink, error) {
	metrics, err := reporting.NewMetricsSink(x.meter)
	if err != nil {
		return nil, err
	}

	sinks := []reporting.Sink{reporting.NewLogSink(x.logger), metrics}
	if subject := x.config.Reporting.NATSSubject; subject != "" {
		natsSink, err := reporting.NewNATSSink(x.config.NATS.URL, subject)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, natsSink)
	}
	return append(sinks, x.sinks...), nil
}

func (x *Node) newElector(membership cluster.Membership) (singleton.Elector, error) {
	cfg := x.config
	key := electionKey + cfg.Cluster.Name
	switch cfg.Singleton.Elector {
	case config.EtcdElector:
		return singleton.NewEtcdElector(&singleton.EtcdConfig{
			Endpoints:   cfg.Etcd.Endpoints,
			DialTimeout: cfg.Etcd.DialTimeout,
			Key:         key,
			TTL:         cfg.Singleton.LeaseTTL,
		})
	case config.RedisElector:
		return singleton.NewRedisElector(&singleton.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      key,
			TTL:      cfg.Singleton.LeaseTTL,
		})
	case config.LocalElector:
		return singleton.NewLocalElector(), nil
	default:
		return singleton.NewMembershipElector(membership, cfg.Cluster.Name), nil
	}
}

func closeSinks(sinks []reporting.Sink) error {
	var err error
	for _, sink := range sinks {
		err = multierr.Append(err, sink.Close())
	}
	return err
}
