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

// Package validation provides composable checks used by the configuration
// and address types.
package validation

import (
	"errors"

	"go.uber.org/multierr"
)

// Validator is implemented by any value able to check itself
type Validator interface {
	Validate() error
}

// Mode defines how a Chain reports its violations
type Mode int

const (
	// ReportAll runs every rule and combines the violations
	ReportAll Mode = iota
	// StopAtFirst returns the first violation
	StopAtFirst
)

// Chain runs a list of rules in the order they were added
type Chain struct {
	mode  Mode
	rules []Validator
}

// ChainOption configures a Chain
type ChainOption func(*Chain)

// New creates a Chain. It reports every violation unless FailFast is given.
func New(opts ...ChainOption) *Chain {
	chain := &Chain{mode: ReportAll}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// FailFast makes the chain return its first violation
func FailFast() ChainOption {
	return func(c *Chain) { c.mode = StopAtFirst }
}

// AllErrors makes the chain combine all its violations
func AllErrors() ChainOption {
	return func(c *Chain) { c.mode = ReportAll }
}

// AddValidator appends a rule
func (c *Chain) AddValidator(rule Validator) *Chain {
	c.rules = append(c.rules, rule)
	return c
}

// AddAssertion appends a rule failing with message when holds is false
func (c *Chain) AddAssertion(holds bool, message string) *Chain {
	return c.AddValidator(NewBooleanValidator(holds, message))
}

// Validate runs the rules. Every call reports the violations of that run only.
func (c *Chain) Validate() error {
	var violations []error
	for _, rule := range c.rules {
		err := rule.Validate()
		if err == nil {
			continue
		}

		if c.mode == StopAtFirst {
			return err
		}
		violations = append(violations, err)
	}
	return multierr.Combine(violations...)
}

// NewBooleanValidator returns a rule failing with message when holds is false
func NewBooleanValidator(holds bool, message string) Validator {
	return assertion{holds: holds, message: message}
}

type assertion struct {
	holds   bool
	message string
}

func (a assertion) Validate() error {
	if a.holds {
		return nil
	}
	return errors.New(a.message)
}
