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

package reporting

import (
	"fmt"

	"github.com/tochemey/entitystore/remote"
)

// Entity lifecycle actions
const (
	// ActionStart is emitted when an entity state is created
	ActionStart = "start"
	// ActionPing is emitted when an active entity handles a command
	ActionPing = "ping"
	// ActionStop is emitted when an entity is passivated
	ActionStop = "stop"
)

func init() {
	remote.RegisterSerializableTypes(new(EntityAction), new(SingletonStatistics))
}

// EntityAction is the lifecycle notification emitted by an entity
// on every state transition.
type EntityAction struct {
	// OwnerID is the identifier of the node hosting the entity
	OwnerID string `cbor:"1,keyasint"`
	// ShardID is the shard the entity key belongs to
	ShardID string `cbor:"2,keyasint"`
	// EntityKey is the key of the entity
	EntityKey string `cbor:"3,keyasint"`
	// Action is one of start, ping or stop
	Action string `cbor:"4,keyasint"`
	// Address is the network location of the command sender.
	// It is nil for stop notifications.
	Address *string `cbor:"5,keyasint,omitempty"`
}

// String returns a human-readable form of the notification
func (x *EntityAction) String() string {
	addr := "<nil>"
	if x.Address != nil {
		addr = *x.Address
	}
	return fmt.Sprintf("EntityAction[owner=%s, shard=%s, key=%s, action=%s, address=%s]",
		x.OwnerID, x.ShardID, x.EntityKey, x.Action, addr)
}

// SingletonStatistics is the statistics notification produced on every
// reply from the statistics aggregator.
type SingletonStatistics struct {
	// OriginID is the identifier of the node running the aggregator
	// instance that answered
	OriginID string `cbor:"1,keyasint"`
	// TotalPings is the number of pings handled by the aggregator instance
	TotalPings int `cbor:"2,keyasint"`
	// PingRatePs is the aggregator ping rate in pings per second
	PingRatePs int `cbor:"3,keyasint"`
	// PerOriginCounts maps every origin port to its ping count
	PerOriginCounts map[int]int `cbor:"4,keyasint"`
}
