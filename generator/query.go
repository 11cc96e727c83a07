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

package generator

import (
	"context"
	"time"

	"github.com/tochemey/entitystore/actor"
	"github.com/tochemey/entitystore/entity"
	"github.com/tochemey/entitystore/sharding"
)

// QueryName is the well-known name of the read generator
const QueryName = "query"

// Query periodically reads a random entity
type Query struct {
	router sharding.Router
	picker *Picker
	timer  *fixedDelay
}

var _ actor.Actor = (*Query)(nil)

// NewQuery creates a Query ticking every interval
func NewQuery(router sharding.Router, picker *Picker, interval time.Duration) *Query {
	return &Query{
		router: router,
		picker: picker,
		timer:  &fixedDelay{interval: interval},
	}
}

// PreStart implements actor.Actor
func (x *Query) PreStart(context.Context) error {
	return nil
}

// Receive implements actor.Actor
func (x *Query) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
		x.timer.arm(ctx)
	case *tick:
		key := x.picker.Next()
		self := ctx.Self().Address()
		query := &entity.GetValue{ID: key, ReplyTo: self}
		if err := x.router.Tell(ctx.Context(), key, query, self); err != nil {
			ctx.Logger().Warnf("failed to send %s: %v", query, err)
		}
		x.timer.arm(ctx)
	case *entity.GetValueAck:
		ctx.Logger().Infof("%s", msg)
	case *entity.GetValueAckNotFound:
		ctx.Logger().Infof("%s", msg)
	default:
		ctx.Unhandled()
	}
}

// PostStop cancels the pending tick
func (x *Query) PostStop(context.Context) error {
	x.timer.cancel()
	return nil
}
