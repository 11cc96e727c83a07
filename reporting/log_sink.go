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

	"github.com/tochemey/entitystore/log"
)

// LogSink writes notifications to a logger
type LogSink struct {
	logger log.Logger
}

var _ Sink = (*LogSink)(nil)

// NewLogSink creates a LogSink
func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// ReportEntityAction logs the notification at debug level
func (x *LogSink) ReportEntityAction(_ context.Context, action *EntityAction) error {
	x.logger.Debugf("%s", action)
	return nil
}

// ReportStatistics logs the notification at debug level
func (x *LogSink) ReportStatistics(_ context.Context, stats *SingletonStatistics) error {
	x.logger.Debugf("statistics from %s: total=%d rate=%d/s", stats.OriginID, stats.TotalPings, stats.PingRatePs)
	return nil
}

// Close flushes the logger
func (x *LogSink) Close() error {
	return x.logger.Flush()
}
