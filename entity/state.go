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
	"strconv"

	"github.com/tochemey/entitystore/sharding"
)

// State is the in-memory state held by an entity
type State struct {
	ID     string
	Value  string
	Amount int
}

// String implements fmt.Stringer
func (x *State) String() string {
	if x == nil {
		return "State[<empty>]"
	}
	return fmt.Sprintf("State[id=%s, value=%s, amount=%d]", x.ID, x.Value, x.Amount)
}

// ID returns the key of the n-th entity owned by the node listening on port
func ID(port, n int) string {
	return strconv.Itoa(port) + "-" + strconv.Itoa(n)
}

// ShardID returns the shard of the given entity key
func ShardID(key string, shards int) string {
	return sharding.ShardID(key, shards)
}
