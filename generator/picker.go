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

package generator

import (
	"math/rand/v2"

	"github.com/tochemey/entitystore/entity"
)

// Picker picks the entity keys targeted by a generator. The sequence only
// depends on the seed and the node port.
type Picker struct {
	rng      *rand.Rand
	port     int
	entities int
}

// NewPicker creates a Picker choosing among the entitiesPerNode+1 keys of port
func NewPicker(seed uint64, port, entitiesPerNode int) *Picker {
	return &Picker{
		rng:      rand.New(rand.NewPCG(seed, uint64(port))),
		port:     port,
		entities: max(entitiesPerNode, 0),
	}
}

// Next returns the next key
func (x *Picker) Next() string {
	return entity.ID(x.port, x.rng.IntN(x.entities+1))
}
