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

package sharding

import (
	"context"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/tochemey/entitystore/actor"
	"github.com/tochemey/entitystore/cluster"
)

const (
	// RegionName is the well-known name of the region actor on every node
	RegionName = "shard-region"

	entityPrefix     = "entity-"
	minSweepInterval = 10 * time.Millisecond
)

// EntityFactory creates the actor owning the given key
type EntityFactory func(key string) actor.Actor

// Region hosts the entities of the shards the ring places on the local
// node. It creates entities on their first message, forwards envelopes for
// shards owned by other nodes and passivates idle entities.
//
// Messages sent to an entity being passivated are buffered and replayed
// once it has terminated, to a fresh instance or to the new owner node.
type Region struct {
	factory     EntityFactory
	membership  cluster.Membership
	shards      int
	points      int
	idleTimeout time.Duration
	stopMessage any

	system      actor.ActorSystem
	self        string
	ring        *Ring
	members     map[string]*cluster.Member
	entities    map[string]*actor.PID
	passivating mapset.Set[string]
	buffers     map[string][]*ShardEnvelope
	sweepRef    string
	draining    bool
}

var _ actor.Actor = (*Region)(nil)

// NewRegion creates a Region. The initial ring is built from the membership
// view; it is rebuilt on every MembersChanged message.
func NewRegion(factory EntityFactory, membership cluster.Membership, opts ...Option) *Region {
	region := &Region{
		factory:    factory,
		membership: membership,
		shards:     DefaultNumberOfShards,
		points:     DefaultVirtualPoints,
	}

	for _, opt := range opts {
		opt.Apply(region)
	}
	return region
}

// PreStart implements actor.Actor
func (x *Region) PreStart(context.Context) error {
	x.entities = make(map[string]*actor.PID)
	x.buffers = make(map[string][]*ShardEnvelope)
	x.passivating = mapset.NewThreadUnsafeSet[string]()
	x.members = make(map[string]*cluster.Member)
	return nil
}

// Receive implements actor.Actor
func (x *Region) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
		x.postStart(ctx)
	case *ShardEnvelope:
		x.handle(ctx, msg)
	case *actor.Terminated:
		x.terminated(ctx, msg)
	case *MembersChanged:
		x.rebalance(ctx, msg.Members)
	case *passivationTick:
		x.sweep(ctx)
	case *PassivateAll:
		x.passivateAll(ctx)
	case *Drain:
		x.draining = true
		x.passivateAll(ctx)
	default:
		ctx.Unhandled()
	}
}

// PostStop implements actor.Actor
func (x *Region) PostStop(context.Context) error {
	if x.sweepRef != "" {
		// the scheduler may already be stopped along with the system
		_ = x.system.CancelSchedule(x.sweepRef)
	}
	return nil
}

func (x *Region) postStart(ctx *actor.ReceiveContext) {
	x.system = ctx.ActorSystem()
	x.self = x.system.NodeAddress().HostPort()

	var members []*cluster.Member
	if x.membership != nil {
		members = x.membership.Members()
	}
	x.rebuild(members)

	if x.idleTimeout > 0 {
		x.sweepRef = uuid.NewString()
		interval := max(x.idleTimeout/2, minSweepInterval)
		if err := x.system.Schedule(new(passivationTick), ctx.Self(), interval, actor.WithReference(x.sweepRef)); err != nil {
			ctx.Err(err)
			x.sweepRef = ""
		}
	}
}

// handle delivers the envelope locally or forwards it to the owning node
func (x *Region) handle(ctx *actor.ReceiveContext, envelope *ShardEnvelope) {
	owner := x.ring.Locate(ShardID(envelope.EntityID, x.shards))
	if owner != x.self && !envelope.Forwarded {
		if member, ok := x.members[owner]; ok {
			x.forward(ctx, member, envelope)
			return
		}
	}
	x.deliver(ctx, envelope)
}

func (x *Region) forward(ctx *actor.ReceiveContext, member *cluster.Member, envelope *ShardEnvelope) {
	to := member.Address(x.system.Name(), ctx.Self().Name())
	forwarded := *envelope
	forwarded.Forwarded = true
	if err := ctx.Self().RemoteTell(context.WithoutCancel(ctx.Context()), to, &forwarded); err != nil {
		ctx.Logger().Warnf("dropping message for entity %s: failed to forward to %s: %v", envelope.EntityID, member.ID(), err)
	}
}

func (x *Region) deliver(ctx *actor.ReceiveContext, envelope *ShardEnvelope) {
	key := envelope.EntityID
	if x.draining {
		ctx.Logger().Debugf("dropping message for entity %s: region is draining", key)
		return
	}

	if x.passivating.Contains(key) {
		x.buffers[key] = append(x.buffers[key], envelope)
		return
	}

	pid, ok := x.entities[key]
	if ok && !pid.IsRunning() {
		// stopping on its own; the Terminated message triggers the replay
		x.passivating.Add(key)
		x.buffers[key] = append(x.buffers[key], envelope)
		return
	}

	if !ok {
		pid = ctx.Spawn(entityPrefix+key, x.factory(key))
		if pid == nil {
			ctx.Logger().Warnf("dropping message for entity %s: failed to start", key)
			return
		}
		ctx.Watch(pid)
		x.entities[key] = pid
	}

	ctx.Forward(pid, envelope.Message, envelope.Sender)
}

func (x *Region) terminated(ctx *actor.ReceiveContext, msg *actor.Terminated) {
	name := msg.Address().Name()
	if !strings.HasPrefix(name, entityPrefix) {
		return
	}

	key := strings.TrimPrefix(name, entityPrefix)
	delete(x.entities, key)
	x.passivating.Remove(key)

	buffered := x.buffers[key]
	delete(x.buffers, key)
	for _, envelope := range buffered {
		x.handle(ctx, envelope)
	}
}

func (x *Region) passivate(ctx *actor.ReceiveContext, key string) {
	pid, ok := x.entities[key]
	if !ok || x.passivating.Contains(key) {
		return
	}

	x.passivating.Add(key)
	if x.stopMessage == nil {
		ctx.Stop(pid)
		return
	}
	ctx.Tell(pid, x.stopMessage)
}

func (x *Region) passivateAll(ctx *actor.ReceiveContext) {
	for key := range x.entities {
		x.passivate(ctx, key)
	}
}

func (x *Region) sweep(ctx *actor.ReceiveContext) {
	now := time.Now()
	for key, pid := range x.entities {
		latest := pid.LatestActivityTime()
		if latest.IsZero() {
			continue
		}
		if now.Sub(latest) >= x.idleTimeout {
			ctx.Logger().Debugf("passivating idle entity %s", key)
			x.passivate(ctx, key)
		}
	}
}

// rebalance rebuilds the ring and hands off the entities whose shard
// is now owned by another node.
func (x *Region) rebalance(ctx *actor.ReceiveContext, members []*cluster.Member) {
	x.rebuild(members)
	for key := range x.entities {
		if owner := x.ring.Locate(ShardID(key, x.shards)); owner != x.self {
			ctx.Logger().Infof("handing off entity %s to %s", key, owner)
			x.passivate(ctx, key)
		}
	}
}

func (x *Region) rebuild(members []*cluster.Member) {
	clear(x.members)
	nodes := []string{x.self}
	for _, member := range members {
		x.members[member.ID()] = member
		nodes = append(nodes, member.ID())
	}
	x.ring = NewRing(x.points, nodes...)
}
