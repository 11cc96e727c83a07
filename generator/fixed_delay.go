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
	"time"

	"github.com/google/uuid"

	"github.com/tochemey/entitystore/actor"
)

// tick triggers the next command
type tick struct{}

// fixedDelay arms a single tick at a time; the next one is armed once the
// current tick has been handled, so slow handling delays the following ticks.
type fixedDelay struct {
	interval  time.Duration
	system    actor.ActorSystem
	reference string
}

func (x *fixedDelay) arm(ctx *actor.ReceiveContext) {
	x.system = ctx.ActorSystem()
	x.reference = uuid.NewString()
	if err := x.system.ScheduleOnce(new(tick), ctx.Self(), x.interval, actor.WithReference(x.reference)); err != nil {
		ctx.Err(err)
	}
}

func (x *fixedDelay) cancel() {
	if x.system != nil && x.reference != "" {
		_ = x.system.CancelSchedule(x.reference)
	}
}
