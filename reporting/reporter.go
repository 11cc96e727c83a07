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

package reporting

import (
	"context"

	"go.uber.org/multierr"

	"github.com/tochemey/entitystore/actor"
)

// ReporterName is the well-known name of the Reporter actor on every node
const ReporterName = "reporter"

// Reporter fans out the notifications it receives to its sinks.
// A failing sink is logged and does not prevent delivery to the others.
type Reporter struct {
	sinks []Sink
}

var _ actor.Actor = (*Reporter)(nil)

// NewReporter creates a Reporter
func NewReporter(sinks ...Sink) *Reporter {
	return &Reporter{sinks: sinks}
}

// PreStart implements actor.Actor
func (x *Reporter) PreStart(context.Context) error {
	return nil
}

// Receive implements actor.Actor
func (x *Reporter) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
	case *EntityAction:
		for _, sink := range x.sinks {
			if err := sink.ReportEntityAction(ctx.Context(), msg); err != nil {
				ctx.Logger().Warnf("failed to report %s: %v", msg, err)
			}
		}
	case *SingletonStatistics:
		for _, sink := range x.sinks {
			if err := sink.ReportStatistics(ctx.Context(), msg); err != nil {
				ctx.Logger().Warnf("failed to report statistics from %s: %v", msg.OriginID, err)
			}
		}
	default:
		ctx.Unhandled()
	}
}

// PostStop closes the sinks
func (x *Reporter) PostStop(context.Context) error {
	var err error
	for _, sink := range x.sinks {
		err = multierr.Append(err, sink.Close())
	}
	return err
}
