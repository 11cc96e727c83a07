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

package singleton

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tochemey/entitystore/cluster"
	gerrors "github.com/tochemey/entitystore/errors"
)

// DefaultPollInterval is the default pause between two reads of the membership
const DefaultPollInterval = 100 * time.Millisecond

// MembershipElector elects the oldest member of the cluster. Every node
// reads the same gossiped membership, so every node agrees on the leader
// once the membership converges. The leadership moves to the next oldest
// member when the leader leaves the cluster.
type MembershipElector struct {
	membership cluster.Membership
	system     string
	interval   time.Duration
	closed     chan struct{}
	closeOnce  sync.Once
}

var _ Elector = (*MembershipElector)(nil)

// NewMembershipElector creates a MembershipElector. Candidates are the node
// addresses of the members in the given actor system.
func NewMembershipElector(membership cluster.Membership, system string) *MembershipElector {
	return &MembershipElector{
		membership: membership,
		system:     system,
		interval:   DefaultPollInterval,
		closed:     make(chan struct{}),
	}
}

// Campaign implements Elector. It blocks until the candidate is the oldest member.
func (x *MembershipElector) Campaign(ctx context.Context, candidate string) (Lease, error) {
	ticker := time.NewTicker(x.interval)
	defer ticker.Stop()

	for {
		if leader, err := x.Leader(ctx); err == nil && leader == candidate {
			lease := &membershipLease{done: make(chan struct{}), resigned: make(chan struct{})}
			go x.watch(lease, candidate)
			return lease, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-x.closed:
			return nil, gerrors.ErrElectorClosed
		case <-ticker.C:
		}
	}
}

// Leader implements Elector
func (x *MembershipElector) Leader(context.Context) (string, error) {
	select {
	case <-x.closed:
		return "", gerrors.ErrLeaderNotFound
	default:
	}

	if x.membership.Status() != cluster.Up {
		return "", gerrors.ErrLeaderNotFound
	}

	oldest := Oldest(x.membership.Members())
	if oldest == nil {
		return "", gerrors.ErrLeaderNotFound
	}
	return oldest.Address(x.system, "").NodeAddress(), nil
}

// Close revokes the leases and fails every pending campaign
func (x *MembershipElector) Close() error {
	x.closeOnce.Do(func() { close(x.closed) })
	return nil
}

// watch revokes the lease once the candidate is no longer the oldest member
func (x *MembershipElector) watch(lease *membershipLease, candidate string) {
	defer lease.revoke()

	ticker := time.NewTicker(x.interval)
	defer ticker.Stop()

	for {
		select {
		case <-x.closed:
			return
		case <-lease.resigned:
			return
		case <-ticker.C:
			if leader, err := x.Leader(context.Background()); err != nil || leader != candidate {
				return
			}
		}
	}
}

// Oldest returns the member that joined first. Ties are broken by
// identifier. It returns nil when members is empty.
func Oldest(members []*cluster.Member) *cluster.Member {
	var oldest *cluster.Member
	for _, member := range members {
		if oldest == nil || member.CreatedAt.Before(oldest.CreatedAt) ||
			(member.CreatedAt.Equal(oldest.CreatedAt) && strings.Compare(member.ID(), oldest.ID()) < 0) {
			oldest = member
		}
	}
	return oldest
}

type membershipLease struct {
	done       chan struct{}
	resigned   chan struct{}
	doneOnce   sync.Once
	resignOnce sync.Once
}

func (x *membershipLease) Done() <-chan struct{} {
	return x.done
}

// Resign stops tracking the leadership. The member stays the oldest one,
// so a later campaign elects it again.
func (x *membershipLease) Resign(context.Context) error {
	x.resignOnce.Do(func() { close(x.resigned) })
	x.revoke()
	return nil
}

func (x *membershipLease) revoke() {
	x.doneOnce.Do(func() { close(x.done) })
}
