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

package stats

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/tochemey/entitystore/actor"
	"github.com/tochemey/entitystore/address"
	"github.com/tochemey/entitystore/cluster"
	"github.com/tochemey/entitystore/reporting"
)

const (
	// PingerName is the well-known name of the pinger on every node
	PingerName = "pinger"

	baseInterval   = 25 * time.Millisecond
	jitterInterval = 150 * time.Millisecond
	logEvery       = 100
)

// Locator resolves the address of the aggregator
type Locator interface {
	Locate(ctx context.Context) (*address.Address, error)
}

// Pinger periodically pings the aggregator while the local node is Up and
// reports every Pong it receives.
type Pinger struct {
	locator    Locator
	membership cluster.Membership
	rng        *rand.Rand
	timerRef   string
	system     actor.ActorSystem
}

var _ actor.Actor = (*Pinger)(nil)

// NewPinger creates a Pinger
func NewPinger(locator Locator, membership cluster.Membership) *Pinger {
	return &Pinger{
		locator:    locator,
		membership: membership,
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
}

// PreStart implements actor.Actor
func (x *Pinger) PreStart(context.Context) error {
	return nil
}

// Receive implements actor.Actor
func (x *Pinger) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
		x.system = ctx.ActorSystem()
		x.schedule(ctx)
	case *pingTick:
		x.ping(ctx)
		x.schedule(ctx)
	case *Pong:
		x.report(ctx, msg)
	default:
		ctx.Unhandled()
	}
}

// PostStop cancels the pending tick
func (x *Pinger) PostStop(context.Context) error {
	if x.timerRef != "" {
		_ = x.system.CancelSchedule(x.timerRef)
	}
	return nil
}

func (x *Pinger) ping(ctx *actor.ReceiveContext) {
	if status := x.membership.Status(); status != cluster.Up {
		ctx.Logger().Debugf("skipping ping, member is %s", status)
		return
	}

	to, err := x.locator.Locate(ctx.Context())
	if err != nil {
		ctx.Logger().Debugf("skipping ping: %v", err)
		return
	}

	ctx.RemoteTell(to, &Ping{
		ReplyTo: ctx.Self().Address(),
		Port:    x.system.NodeAddress().Port(),
		Start:   time.Now().UTC(),
	})
}

func (x *Pinger) report(ctx *actor.ReceiveContext, pong *Pong) {
	if pong.TotalPings%logEvery == 0 {
		ctx.Logger().Infof("singleton %s: total pings %d, %d pings/s, %v",
			pong.ReplyFrom.HostPort(), pong.TotalPings, pong.PingRatePs, pong.SingletonStatistics)
	}

	ctx.RemoteTell(x.system.NodeAddress().WithName(reporting.ReporterName), &reporting.SingletonStatistics{
		OriginID:        pong.ReplyFrom.HostPort(),
		TotalPings:      pong.TotalPings,
		PingRatePs:      pong.PingRatePs,
		PerOriginCounts: pong.SingletonStatistics,
	})
}

// schedule arms the next tick after a jittered delay
func (x *Pinger) schedule(ctx *actor.ReceiveContext) {
	x.timerRef = uuid.NewString()
	delay := baseInterval + time.Duration(x.rng.Int64N(int64(jitterInterval)))
	if err := x.system.ScheduleOnce(new(pingTick), ctx.Self(), delay, actor.WithReference(x.timerRef)); err != nil {
		ctx.Err(err)
	}
}
