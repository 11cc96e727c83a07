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

package cluster

import (
	"net"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/tochemey/entitystore/address"
)

// MemberStatus is the lifecycle status of the local cluster member
type MemberStatus int

const (
	// Joining means the node is attempting to join the cluster
	Joining MemberStatus = iota
	// Up means the node is a full member of the cluster
	Up
	// Leaving means the node is gracefully leaving the cluster
	Leaving
	// Down means the node is no longer part of the cluster
	Down
)

// String returns the textual representation of the status
func (x MemberStatus) String() string {
	switch x {
	case Joining:
		return "Joining"
	case Up:
		return "Up"
	case Leaving:
		return "Leaving"
	case Down:
		return "Down"
	default:
		return "Unknown"
	}
}

// Member specifies a cluster member
type Member struct {
	Host      string    `cbor:"1,keyasint"`
	Port      int       `cbor:"2,keyasint"`
	CreatedAt time.Time `cbor:"3,keyasint"`
}

// NewMember creates a Member
func NewMember(host string, port int) *Member {
	return &Member{Host: host, Port: port, CreatedAt: time.Now().UTC()}
}

// ID returns the member identifier, its host:port pair
func (m *Member) ID() string {
	return net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}

// Address returns the address of the given actor on the member
func (m *Member) Address(system, actorName string) *address.Address {
	return address.New(actorName, system, m.Host, m.Port)
}

// memberFromMeta returns a Member record from a node metadata
func memberFromMeta(meta []byte) (*Member, error) {
	member := new(Member)
	if err := cbor.Unmarshal(meta, member); err != nil {
		return nil, err
	}
	return member, nil
}

// EventType defines the cluster event type
type EventType int

const (
	// NodeJoined is emitted when a member joins the cluster
	NodeJoined EventType = iota
	// NodeLeft is emitted when a member leaves the cluster or is declared dead
	NodeLeft
)

// String returns the textual representation of the event type
func (x EventType) String() string {
	switch x {
	case NodeJoined:
		return "NodeJoined"
	case NodeLeft:
		return "NodeLeft"
	default:
		return ""
	}
}

// Event defines a cluster membership event
type Event struct {
	Member *Member
	Time   time.Time
	Type   EventType
}
