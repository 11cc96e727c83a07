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

package remote

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/tochemey/entitystore/address"
	gerrors "github.com/tochemey/entitystore/errors"
)

// Envelope is a message addressed to an actor on another node
type Envelope struct {
	To      *address.Address
	From    *address.Address
	Message any
}

// frame is the wire form of an Envelope. The message is framed by a
// Serializer so the receiver can restore its concrete type.
type frame struct {
	To      []byte `cbor:"1,keyasint"`
	From    []byte `cbor:"2,keyasint,omitempty"`
	Payload []byte `cbor:"3,keyasint"`
}

// EncodeEnvelope converts the envelope into its wire form
func EncodeEnvelope(serializer Serializer, envelope *Envelope) ([]byte, error) {
	if envelope == nil || envelope.To.IsZero() {
		return nil, fmt.Errorf("%w: envelope has no recipient", gerrors.ErrInvalidMessage)
	}

	payload, err := serializer.Serialize(envelope.Message)
	if err != nil {
		return nil, err
	}

	to, _ := envelope.To.MarshalBinary()
	from, _ := envelope.From.MarshalBinary()
	bytea, err := cbor.Marshal(&frame{To: to, From: from, Payload: payload})
	if err != nil {
		return nil, errors.Join(ErrSerializeFailed, err)
	}
	return bytea, nil
}

// DecodeEnvelope restores an envelope produced by EncodeEnvelope
func DecodeEnvelope(serializer Serializer, data []byte) (*Envelope, error) {
	wire := new(frame)
	if err := cbor.Unmarshal(data, wire); err != nil {
		return nil, errors.Join(ErrDeserializeFailed, err)
	}

	to := new(address.Address)
	if err := to.UnmarshalBinary(wire.To); err != nil {
		return nil, err
	}

	from := new(address.Address)
	if err := from.UnmarshalBinary(wire.From); err != nil {
		return nil, err
	}

	message, err := serializer.Deserialize(wire.Payload)
	if err != nil {
		return nil, err
	}

	return &Envelope{To: to, From: from, Message: message}, nil
}
