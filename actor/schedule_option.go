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

package actor

import (
	"github.com/google/uuid"

	"github.com/tochemey/entitystore/address"
)

// ScheduleOption configures a scheduled message
type ScheduleOption interface {
	// Apply sets the Option value of a config.
	Apply(*scheduleConfig)
}

type scheduleConfig struct {
	reference string
	sender    *address.Address
}

func newScheduleConfig(opts ...ScheduleOption) *scheduleConfig {
	config := &scheduleConfig{
		reference: uuid.NewString(),
		sender:    address.NoSender(),
	}
	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

type scheduleOptionFunc func(*scheduleConfig)

func (f scheduleOptionFunc) Apply(c *scheduleConfig) {
	f(c)
}

// WithReference sets the reference used to cancel the scheduled message
func WithReference(reference string) ScheduleOption {
	return scheduleOptionFunc(func(config *scheduleConfig) {
		config.reference = reference
	})
}

// WithSender sets the sender of the scheduled message
func WithSender(sender *address.Address) ScheduleOption {
	return scheduleOptionFunc(func(config *scheduleConfig) {
		config.sender = sender
	})
}
