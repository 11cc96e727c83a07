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
	"fmt"

	"github.com/tochemey/entitystore/actor"
	"github.com/tochemey/entitystore/address"
	gerrors "github.com/tochemey/entitystore/errors"
)

// Router delivers messages to the entity owning a key, wherever it runs
type Router interface {
	// Tell sends the message to the entity owning key. Replies are sent to
	// sender when the message does not carry its own reply address.
	Tell(ctx context.Context, key string, message any, sender *address.Address) error
}

type router struct {
	system actor.ActorSystem
	region *address.Address
}

var _ Router = (*router)(nil)

// NewRouter creates a Router sending through the local region with the given name
func NewRouter(system actor.ActorSystem, regionName string) Router {
	return &router{
		system: system,
		region: system.NodeAddress().WithName(regionName),
	}
}

// Tell implements Router
func (x *router) Tell(ctx context.Context, key string, message any, sender *address.Address) error {
	if key == "" || message == nil {
		return fmt.Errorf("%w: entity key and message are required", gerrors.ErrInvalidMessage)
	}
	return x.system.Tell(ctx, x.region, &ShardEnvelope{EntityID: key, Message: message, Sender: sender})
}
