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
	"fmt"

	"github.com/tochemey/entitystore/address"
	"github.com/tochemey/entitystore/remote"
)

// Acknowledgement actions carried by ChangeValueAck
const (
	// ActionInitialize is used when the command created the entity state
	ActionInitialize = "initialize"
	// ActionUpdate is used when the command overwrote an existing state
	ActionUpdate = "update"
)

func init() {
	remote.RegisterSerializableTypes(
		new(ChangeValue),
		new(ChangeValueAck),
		new(GetValue),
		new(GetValueAck),
		new(GetValueAckNotFound),
		new(Passivate),
	)
}

// ChangeValue is the write command
type ChangeValue struct {
	ID      string           `cbor:"1,keyasint"`
	Value   string           `cbor:"2,keyasint"`
	Amount  int              `cbor:"3,keyasint"`
	ReplyTo *address.Address `cbor:"4,keyasint"`
}

// String implements fmt.Stringer
func (x *ChangeValue) String() string {
	return fmt.Sprintf("ChangeValue[id=%s, value=%s, amount=%d]", x.ID, x.Value, x.Amount)
}

// ChangeValueAck is the reply to ChangeValue
type ChangeValueAck struct {
	Action string `cbor:"1,keyasint"`
	ID     string `cbor:"2,keyasint"`
	Value  string `cbor:"3,keyasint"`
	Amount int    `cbor:"4,keyasint"`
}

// String implements fmt.Stringer
func (x *ChangeValueAck) String() string {
	return fmt.Sprintf("ChangeValueAck[action=%s, id=%s, value=%s, amount=%d]", x.Action, x.ID, x.Value, x.Amount)
}

// GetValue is the read command
type GetValue struct {
	ID      string           `cbor:"1,keyasint"`
	ReplyTo *address.Address `cbor:"2,keyasint"`
}

// String implements fmt.Stringer
func (x *GetValue) String() string {
	return fmt.Sprintf("GetValue[id=%s]", x.ID)
}

// GetValueAck is the reply to GetValue when the entity has a state
type GetValueAck struct {
	ID     string `cbor:"1,keyasint"`
	Value  string `cbor:"2,keyasint"`
	Amount int    `cbor:"3,keyasint"`
}

// String implements fmt.Stringer
func (x *GetValueAck) String() string {
	return fmt.Sprintf("GetValueAck[id=%s, value=%s, amount=%d]", x.ID, x.Value, x.Amount)
}

// GetValueAckNotFound is the reply to GetValue when the entity had no state
type GetValueAckNotFound struct {
	ID string `cbor:"1,keyasint"`
}

// String implements fmt.Stringer
func (x *GetValueAckNotFound) String() string {
	return fmt.Sprintf("GetValueAckNotFound[id=%s]", x.ID)
}

// Passivate asks the entity to stop. The region sends it to idle entities
// and to entities whose shard moved to another node.
type Passivate struct{}
