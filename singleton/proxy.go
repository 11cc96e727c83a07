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
	"fmt"

	"github.com/tochemey/entitystore/address"
)

// Proxy resolves the address of the singleton actor of a role
type Proxy struct {
	elector Elector
	role    string
}

// NewProxy creates a Proxy
func NewProxy(elector Elector, role string) *Proxy {
	return &Proxy{elector: elector, role: role}
}

// Locate returns the address of the singleton actor. It fails with
// errors.ErrLeaderNotFound while no node holds the role.
func (x *Proxy) Locate(ctx context.Context) (*address.Address, error) {
	leader, err := x.elector.Leader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to locate singleton %s: %w", x.role, err)
	}

	node, err := address.Parse(leader)
	if err != nil {
		return nil, err
	}
	return node.WithName(x.role), nil
}
