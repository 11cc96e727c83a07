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

package stats

import (
	"time"

	"github.com/tochemey/entitystore/address"
	"github.com/tochemey/entitystore/remote"
)

func init() {
	remote.RegisterSerializableTypes(new(Ping), new(Pong))
}

// Ping is the liveness message every node sends to the aggregator
type Ping struct {
	ReplyTo *address.Address `cbor:"1,keyasint"`
	// Port is the port of the origin node
	Port  int       `cbor:"2,keyasint"`
	Start time.Time `cbor:"3,keyasint"`
}

// Pong is the aggregator reply to a Ping
type Pong struct {
	ReplyFrom  *address.Address `cbor:"1,keyasint"`
	PingStart  time.Time        `cbor:"2,keyasint"`
	TotalPings int              `cbor:"3,keyasint"`
	PingRatePs int              `cbor:"4,keyasint"`
	// SingletonStatistics maps every origin port to its ping count
	SingletonStatistics map[int]int `cbor:"5,keyasint"`
}

// pingTick triggers the next ping
type pingTick struct{}
