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

package entity

import (
	"context"

	"github.com/tochemey/entitystore/actor"
	"github.com/tochemey/entitystore/address"
	"github.com/tochemey/entitystore/reporting"
)

// Entity is the state machine owning the state of a single key.
//
// It starts Uninitialized and becomes Active on the first command, read or
// write. Passivate makes it Stopped; it then ignores every further message
// and terminates.
type Entity struct {
	key     string
	shardID string
	ownerID string
	state   *State
	stopped bool
}

var _ actor.Actor = (*Entity)(nil)

// New creates the entity owning key
func New(key string, shards int) *Entity {
	return &Entity{
		key:     key,
		shardID: ShardID(key, shards),
	}
}

// PreStart implements actor.Actor
func (x *Entity) PreStart(context.Context) error {
	return nil
}

// Receive implements actor.Actor
func (x *Entity) Receive(ctx *actor.ReceiveContext) {
	if _, ok := ctx.Message().(*actor.PostStart); ok {
		x.ownerID = ctx.ActorSystem().NodeAddress().HostPort()
		ctx.Logger().Infof("Start %s", x.key)
		return
	}

	if x.stopped {
		ctx.Unhandled()
		return
	}

	switch msg := ctx.Message().(type) {
	case *ChangeValue:
		x.changeValue(ctx, msg)
	case *GetValue:
		x.getValue(ctx, msg)
	case *Passivate:
		x.passivate(ctx)
	default:
		ctx.Logger().Warnf("entity %s received unhandled message %T", x.key, msg)
		ctx.Unhandled()
	}
}

// PostStop implements actor.Actor
func (x *Entity) PostStop(context.Context) error {
	return nil
}

func (x *Entity) changeValue(ctx *actor.ReceiveContext, msg *ChangeValue) {
	if x.state == nil {
		x.state = &State{ID: msg.ID, Value: msg.Value, Amount: msg.Amount}
		ctx.Logger().Infof("initialize %s", x.state)
		x.reply(ctx, msg.ReplyTo, &ChangeValueAck{
			Action: ActionInitialize,
			ID:     msg.ID,
			Value:  msg.Value,
			Amount: msg.Amount,
		})
		x.notify(ctx, reporting.ActionStart, x.senderAddress(msg.ReplyTo))
		return
	}

	previous := *x.state
	x.state.Value = msg.Value
	x.state.Amount = msg.Amount
	ctx.Logger().Infof("update %s %s -> %s", x.state.ID, &previous, x.state)
	x.reply(ctx, msg.ReplyTo, &ChangeValueAck{
		Action: ActionUpdate,
		ID:     msg.ID,
		Value:  msg.Value,
		Amount: msg.Amount,
	})
	x.notify(ctx, reporting.ActionPing, x.senderAddress(msg.ReplyTo))
}

func (x *Entity) getValue(ctx *actor.ReceiveContext, msg *GetValue) {
	if x.state == nil {
		x.reply(ctx, msg.ReplyTo, &GetValueAckNotFound{ID: msg.ID})
		// a read creates the entity as well
		x.state = &State{ID: msg.ID}
		ctx.Logger().Infof("initialize %s", x.state)
		x.notify(ctx, reporting.ActionStart, x.senderAddress(msg.ReplyTo))
		return
	}

	ctx.Logger().Infof("%s -> %s", msg, x.state)
	x.reply(ctx, msg.ReplyTo, &GetValueAck{
		ID:     x.state.ID,
		Value:  x.state.Value,
		Amount: x.state.Amount,
	})
	x.notify(ctx, reporting.ActionPing, x.senderAddress(msg.ReplyTo))
}

func (x *Entity) passivate(ctx *actor.ReceiveContext) {
	x.stopped = true
	x.notify(ctx, reporting.ActionStop, nil)
	ctx.Logger().Infof("Stop passivate %s %s %s", x.key, x.shardID, x.ownerID)
	ctx.Shutdown()
}

// reply sends the message to replyTo, or to the sender when the command
// carries no reply address.
func (x *Entity) reply(ctx *actor.ReceiveContext, replyTo *address.Address, message any) {
	if replyTo.IsZero() {
		ctx.Reply(message)
		return
	}
	ctx.RemoteTell(replyTo, message)
}

// senderAddress returns the node address of replyTo, or the owner identifier
// when replyTo does not resolve to a node.
func (x *Entity) senderAddress(replyTo *address.Address) *string {
	addr := x.ownerID
	if !replyTo.IsZero() && replyTo.Host() != "" {
		addr = replyTo.NodeAddress()
	}
	return &addr
}

func (x *Entity) notify(ctx *actor.ReceiveContext, action string, addr *string) {
	reporter := ctx.ActorSystem().NodeAddress().WithName(reporting.ReporterName)
	ctx.RemoteTell(reporter, &reporting.EntityAction{
		OwnerID:   x.ownerID,
		ShardID:   x.shardID,
		EntityKey: x.key,
		Action:    action,
		Address:   addr,
	})
}
