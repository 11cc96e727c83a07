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

// CommandName is the well-known name of the write generator
const CommandName = "command"

// Command periodically writes the current time to a random entity
type Command struct {
	router sharding.Router
	picker *Picker
	timer  *fixedDelay
}

var _ actor.Actor = (*Command)(nil)

// NewCommand creates a Command ticking every interval
func NewCommand(router sharding.Router, picker *Picker, interval time.Duration) *Command {
	return &Command{
		router: router,
		picker: picker,
		timer:  &fixedDelay{interval: interval},
	}
}

// PreStart implements actor.Actor
func (x *Command) PreStart(context.Context) error {
	return nil
}

// Receive implements actor.Actor
func (x *Command) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
		x.timer.arm(ctx)
	case *tick:
		key := x.picker.Next()
		self := ctx.Self().Address()
		command := &entity.ChangeValue{
			ID:      key,
			Value:   time.Now().UTC().Format(time.RFC3339Nano),
			Amount:  0,
			ReplyTo: self,
		}
		if err := x.router.Tell(ctx.Context(), key, command, self); err != nil {
			ctx.Logger().Warnf("failed to send %s: %v", command, err)
		}
		x.timer.arm(ctx)
	case *entity.ChangeValueAck:
		ctx.Logger().Infof("%s", msg)
	default:
		ctx.Unhandled()
	}
}

// PostStop cancels the pending tick
func (x *Command) PostStop(context.Context) error {
	x.timer.cancel()
	return nil
}
