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
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tochemey/entitystore/address"
)

// Handler receives the envelopes delivered to the local node
type Handler func(ctx context.Context, envelope *Envelope)

// Transport moves envelopes between nodes
type Transport interface {
	// Start begins delivering the envelopes addressed to the given node to handler
	Start(ctx context.Context, node *address.Address, handler Handler) error
	// Send publishes the envelope to the node hosting its recipient
	Send(ctx context.Context, envelope *Envelope) error
	// Stop releases the transport resources
	Stop(ctx context.Context) error
}

// Subject returns the NATS subject on which the given node receives its messages
func Subject(prefix string, node *address.Address) string {
	host := strings.NewReplacer(".", "_", ":", "_").Replace(node.Host())
	return fmt.Sprintf("%s.%s.%s_%s", prefix, node.System(), host, strconv.Itoa(node.Port()))
}
