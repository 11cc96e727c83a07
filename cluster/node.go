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
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/hashicorp/memberlist"
	"go.uber.org/multierr"

	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/log"
)

// Node is a cluster member backed by the memberlist gossip protocol.
// The member identity is its host and port; memberlist binds on that port.
type Node struct {
	mu                sync.RWMutex
	self              *Member
	seeds             []string
	logger            log.Logger
	config            *memberlist.Config
	memberlist        *memberlist.Memberlist
	status            MemberStatus
	events            chan *Event
	nodeEvents        chan memberlist.NodeEvent
	stopListener      chan struct{}
	listenerDone      chan struct{}
	maxJoinAttempts   int
	joinRetryInterval time.Duration
	leaveTimeout      time.Duration
}

var _ Membership = (*Node)(nil)

// NewNode creates an instance of Node. Seeds are host:port pairs of the
// members to contact when joining; the local member is ignored when listed.
func NewNode(self *Member, seeds []string, opts ...Option) (*Node, error) {
	node := &Node{
		self:              self,
		logger:            log.DefaultLogger,
		status:            Joining,
		events:            make(chan *Event, 256),
		nodeEvents:        make(chan memberlist.NodeEvent, 256),
		stopListener:      make(chan struct{}),
		listenerDone:      make(chan struct{}),
		maxJoinAttempts:   5,
		joinRetryInterval: time.Second,
		leaveTimeout:      3 * time.Second,
	}

	for _, opt := range opts {
		opt.Apply(node)
	}

	for _, seed := range seeds {
		if seed = strings.TrimSpace(seed); seed != "" && seed != self.ID() {
			node.seeds = append(node.seeds, seed)
		}
	}

	delegate, err := newDelegate(self)
	if err != nil {
		return nil, err
	}

	config := memberlist.DefaultLANConfig()
	config.BindAddr = self.Host
	config.BindPort = self.Port
	config.AdvertisePort = self.Port
	config.Name = self.ID()
	config.LogOutput = newLogWriter(node.logger)
	config.Delegate = delegate
	config.Events = &memberlist.ChannelEventDelegate{Ch: node.nodeEvents}
	node.config = config
	return node, nil
}

// Start creates the memberlist and joins the seed nodes. A node that cannot
// reach any seed starts a cluster of its own; the seeds join it later.
func (x *Node) Start(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.memberlist != nil {
		return nil
	}

	mlist, err := memberlist.Create(x.config)
	if err != nil {
		return fmt.Errorf("failed to create memberlist: %w", err)
	}
	x.memberlist = mlist
	go x.eventsListener()

	if len(x.seeds) > 0 {
		retrier := retry.NewRetrier(x.maxJoinAttempts, x.joinRetryInterval, x.joinRetryInterval)
		if err := retrier.RunContext(ctx, func(context.Context) error {
			_, err := mlist.Join(x.seeds)
			return err
		}); err != nil {
			x.logger.Warnf("%s could not join seeds [%s], starting alone: %v", x.self.ID(), strings.Join(x.seeds, ","), err)
		} else {
			x.logger.Infof("%s successfully joined cluster: [%s]", x.self.ID(), strings.Join(x.seeds, ","))
		}
	}

	x.status = Up
	x.logger.Infof("cluster member %s is Up", x.self.ID())
	return nil
}

// Stop gracefully leaves the cluster
func (x *Node) Stop(context.Context) error {
	x.mu.Lock()
	if x.memberlist == nil || x.status >= Leaving {
		x.mu.Unlock()
		return nil
	}
	x.status = Leaving
	mlist := x.memberlist
	x.mu.Unlock()

	err := multierr.Combine(
		mlist.Leave(x.leaveTimeout),
		mlist.Shutdown(),
	)

	close(x.stopListener)
	<-x.listenerDone

	x.mu.Lock()
	x.status = Down
	x.mu.Unlock()

	if err != nil {
		x.logger.Errorf("%s failed to leave the cluster: %v", x.self.ID(), err)
		return err
	}
	x.logger.Infof("cluster member %s is Down", x.self.ID())
	return nil
}

// Self returns the local member
func (x *Node) Self() *Member {
	return x.self
}

// Status returns the status of the local member
func (x *Node) Status() MemberStatus {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.status
}

// Events returns the stream of membership events, the local member excluded
func (x *Node) Events() <-chan *Event {
	return x.events
}

// Members returns the live members sorted by identifier
func (x *Node) Members() []*Member {
	x.mu.RLock()
	mlist := x.memberlist
	x.mu.RUnlock()

	members := map[string]*Member{x.self.ID(): x.self}
	if mlist == nil {
		return sortMembers(members)
	}

	for _, mnode := range mlist.Members() {
		member, err := memberFromMeta(mnode.Meta)
		if err != nil {
			x.logger.Warnf("skipping member %s with invalid meta: %v", mnode.Name, err)
			continue
		}
		members[member.ID()] = member
	}
	return sortMembers(members)
}

// Peers returns the live members other than the local one
func (x *Node) Peers() ([]*Member, error) {
	if x.Status() != Up {
		return nil, gerrors.ErrClusterNotStarted
	}

	members := x.Members()
	peers := make([]*Member, 0, len(members))
	for _, member := range members {
		if member.ID() != x.self.ID() {
			peers = append(peers, member)
		}
	}
	return peers, nil
}

// eventsListener turns memberlist events into cluster events
func (x *Node) eventsListener() {
	defer close(x.listenerDone)
	for {
		select {
		case event := <-x.nodeEvents:
			if event.Node == nil || event.Node.Name == x.self.ID() {
				continue
			}

			var eventType EventType
			switch event.Event {
			case memberlist.NodeJoin:
				eventType = NodeJoined
			case memberlist.NodeLeave:
				eventType = NodeLeft
			default:
				continue
			}

			member, err := memberFromMeta(event.Node.Meta)
			if err != nil {
				x.logger.Errorf("failed to decode node meta from cluster event: %v", err)
				continue
			}

			x.logger.Debugf("%s received %s for %s", x.self.ID(), eventType, member.ID())
			select {
			case x.events <- &Event{Member: member, Time: time.Now().UTC(), Type: eventType}:
			default:
				x.logger.Warnf("cluster events buffer full, dropping %s for %s", eventType, member.ID())
			}
		case <-x.stopListener:
			return
		}
	}
}
