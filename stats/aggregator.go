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
	"maps"
	"time"

	"github.com/tochemey/entitystore/actor"
)

// AggregatorRole is the singleton role, and actor name, of the aggregator
const AggregatorRole = "statistics-aggregator"

// Aggregator counts the pings of every node and computes the cluster ping
// rate. It runs as a cluster singleton; its counters start from zero on
// every node it is elected on.
type Aggregator struct {
	totalPings          int
	pingRatePs          int
	singletonStatistics map[int]int
	startedAt           time.Time
	now                 func() time.Time
}

var _ actor.Actor = (*Aggregator)(nil)

// NewAggregator creates an Aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// PreStart resets the counters
func (x *Aggregator) PreStart(context.Context) error {
	x.totalPings = 0
	x.pingRatePs = 0
	x.singletonStatistics = make(map[int]int)
	x.startedAt = x.now()
	return nil
}

// Receive implements actor.Actor
func (x *Aggregator) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
		ctx.Logger().Infof("statistics aggregator started on %s", ctx.ActorSystem().NodeAddress().HostPort())
	case *Ping:
		x.totalPings++
		x.singletonStatistics[msg.Port]++

		elapsed := int(x.now().Sub(x.startedAt) / time.Second)
		x.pingRatePs = x.totalPings / max(elapsed, 1)

		pong := &Pong{
			ReplyFrom:           ctx.Self().Address(),
			PingStart:           msg.Start,
			TotalPings:          x.totalPings,
			PingRatePs:          x.pingRatePs,
			SingletonStatistics: maps.Clone(x.singletonStatistics),
		}

		if msg.ReplyTo.IsZero() {
			ctx.Reply(pong)
			return
		}
		ctx.RemoteTell(msg.ReplyTo, pong)
	default:
		ctx.Unhandled()
	}
}

// PostStop implements actor.Actor
func (x *Aggregator) PostStop(context.Context) error {
	return nil
}
