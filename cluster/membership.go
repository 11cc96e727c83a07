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
	"slices"
	"strings"
	"sync"
	"time"
)

// Membership exposes the view of the cluster from the local node
type Membership interface {
	// Self returns the local member
	Self() *Member
	// Members returns the current members of the cluster, the local one
	// included, sorted by identifier
	Members() []*Member
	// Status returns the status of the local member
	Status() MemberStatus
	// Events returns the stream of membership events
	Events() <-chan *Event
}

// Static is an in-memory Membership whose view is set by the caller.
// It backs single-process deployments and tests.
type Static struct {
	mu      sync.RWMutex
	self    *Member
	members map[string]*Member
	status  MemberStatus
	events  chan *Event
}

var _ Membership = (*Static)(nil)

// NewStatic creates a Static membership that is already Up
func NewStatic(self *Member, others ...*Member) *Static {
	members := map[string]*Member{self.ID(): self}
	for _, member := range others {
		members[member.ID()] = member
	}
	return &Static{
		self:    self,
		members: members,
		status:  Up,
		events:  make(chan *Event, 256),
	}
}

// Self returns the local member
func (x *Static) Self() *Member {
	return x.self
}

// Members returns the current members sorted by identifier
func (x *Static) Members() []*Member {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return sortMembers(x.members)
}

// Status returns the status of the local member
func (x *Static) Status() MemberStatus {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.status
}

// Events returns the stream of membership events
func (x *Static) Events() <-chan *Event {
	return x.events
}

// SetStatus sets the status of the local member
func (x *Static) SetStatus(status MemberStatus) {
	x.mu.Lock()
	x.status = status
	x.mu.Unlock()
}

// Join adds the member and emits a NodeJoined event
func (x *Static) Join(member *Member) {
	x.mu.Lock()
	x.members[member.ID()] = member
	x.mu.Unlock()
	x.emit(&Event{Member: member, Time: time.Now().UTC(), Type: NodeJoined})
}

// Leave removes the member and emits a NodeLeft event
func (x *Static) Leave(member *Member) {
	x.mu.Lock()
	delete(x.members, member.ID())
	x.mu.Unlock()
	x.emit(&Event{Member: member, Time: time.Now().UTC(), Type: NodeLeft})
}

func (x *Static) emit(event *Event) {
	select {
	case x.events <- event:
	default:
	}
}

func sortMembers(members map[string]*Member) []*Member {
	out := make([]*Member, 0, len(members))
	for _, member := range members {
		out = append(out, member)
	}
	slices.SortFunc(out, func(a, b *Member) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return out
}
