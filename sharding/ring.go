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
	"slices"
	"sort"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/entitystore/hash"
)

// DefaultVirtualPoints is the number of points every node owns on the ring
const DefaultVirtualPoints = 100

// Ring is a consistent-hash ring placing shards on nodes.
// Two rings built from the same node set locate every key identically,
// and adding or removing a node only moves the keys it gains or loses.
// Ring is immutable and safe for concurrent use.
type Ring struct {
	hasher hash.Hasher
	hashes []uint64
	owners map[uint64]string
	nodes  mapset.Set[string]
}

// NewRing creates a ring holding the given nodes
func NewRing(points int, nodes ...string) *Ring {
	if points <= 0 {
		points = DefaultVirtualPoints
	}

	ring := &Ring{
		hasher: hash.DefaultHasher(),
		owners: make(map[uint64]string, points*len(nodes)),
		nodes:  mapset.NewThreadUnsafeSet[string](nodes...),
	}

	for _, node := range ring.nodes.ToSlice() {
		for i := range points {
			point := ring.hasher.HashCode([]byte(node + "#" + strconv.Itoa(i)))
			// collisions go to the smallest node id so every ring agrees
			if owner, ok := ring.owners[point]; ok && owner < node {
				continue
			}
			ring.owners[point] = node
		}
	}

	ring.hashes = make([]uint64, 0, len(ring.owners))
	for point := range ring.owners {
		ring.hashes = append(ring.hashes, point)
	}
	slices.Sort(ring.hashes)
	return ring
}

// Locate returns the node owning the given key, or an empty string when
// the ring has no node.
func (x *Ring) Locate(key string) string {
	if len(x.hashes) == 0 {
		return ""
	}

	code := x.hasher.HashCode([]byte(key))
	index := sort.Search(len(x.hashes), func(i int) bool { return x.hashes[i] >= code })
	if index == len(x.hashes) {
		index = 0
	}
	return x.owners[x.hashes[index]]
}

// Nodes returns the sorted node ids held by the ring
func (x *Ring) Nodes() []string {
	nodes := x.nodes.ToSlice()
	slices.Sort(nodes)
	return nodes
}

// Contains reports whether the node is part of the ring
func (x *Ring) Contains(node string) bool {
	return x.nodes.Contains(node)
}

// Len returns the number of nodes held by the ring
func (x *Ring) Len() int {
	return x.nodes.Cardinality()
}
