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
	"errors"

	"github.com/fxamacker/cbor/v2"

	"github.com/tochemey/entitystore/address"
	"github.com/tochemey/entitystore/cluster"
	"github.com/tochemey/entitystore/remote"
)

// payloads is used to frame the message carried by a ShardEnvelope
var payloads = remote.NewCBORSerializer()

func init() {
	remote.RegisterSerializableTypes(new(ShardEnvelope))
}

// ShardEnvelope carries a message to the entity identified by EntityID.
// It is sent to the local region which forwards it to the region of the
// owning node when needed.
type ShardEnvelope struct {
	EntityID string
	Message  any
	Sender   *address.Address
	// Forwarded is set once the envelope has been sent to another region.
	// A forwarded envelope is always delivered locally.
	Forwarded bool
}

type shardEnvelope struct {
	EntityID  string           `cbor:"1,keyasint"`
	Payload   []byte           `cbor:"2,keyasint"`
	Sender    *address.Address `cbor:"3,keyasint,omitempty"`
	Forwarded bool             `cbor:"4,keyasint,omitempty"`
}

// MarshalCBOR frames the carried message with its type name so the
// receiving node restores its concrete type.
func (x *ShardEnvelope) MarshalCBOR() ([]byte, error) {
	payload, err := payloads.Serialize(x.Message)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&shardEnvelope{
		EntityID:  x.EntityID,
		Payload:   payload,
		Sender:    x.Sender,
		Forwarded: x.Forwarded,
	})
}

// UnmarshalCBOR restores an envelope produced by MarshalCBOR
func (x *ShardEnvelope) UnmarshalCBOR(data []byte) error {
	wire := new(shardEnvelope)
	if err := cbor.Unmarshal(data, wire); err != nil {
		return err
	}

	if len(wire.Payload) == 0 {
		return errors.New("sharding: envelope has no payload")
	}

	message, err := payloads.Deserialize(wire.Payload)
	if err != nil {
		return err
	}

	x.EntityID = wire.EntityID
	x.Message = message
	x.Sender = wire.Sender
	x.Forwarded = wire.Forwarded
	return nil
}

// MembersChanged notifies the region of the current cluster members
type MembersChanged struct {
	Members []*cluster.Member
}

// PassivateAll asks the region to passivate every local entity
type PassivateAll struct{}

// Drain passivates every local entity and makes the region drop the
// messages it would deliver locally from then on. It is sent before the
// node shuts down.
type Drain struct{}

// passivationTick triggers the idle entities sweep
type passivationTick struct{}
