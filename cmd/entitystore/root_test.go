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

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/entitystore/errors"
)

func TestRootCommand(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "With missing port", args: nil},
		{name: "With too many arguments", args: []string{"2551", "2552"}},
		{name: "With non numeric port", args: []string{"abc"}},
		{name: "With out of range port", args: []string{"70000"}},
		{name: "With zero port", args: []string{"0"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCommand()
			cmd.SetArgs(tc.args)
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))

			err := cmd.Execute()
			require.Error(t, err)
			assert.ErrorIs(t, err, gerrors.ErrInvalidPort)
		})
	}

	t.Run("With missing config file", func(t *testing.T) {
		cmd := newRootCommand()
		cmd.SetArgs([]string{"2551", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))

		err := cmd.Execute()
		require.Error(t, err)
		assert.NotErrorIs(t, err, gerrors.ErrInvalidPort)
	})
}

func TestParsePort(t *testing.T) {
	port, err := parsePort("2551")
	require.NoError(t, err)
	assert.Equal(t, 2551, port)

	_, err = parsePort("")
	assert.ErrorIs(t, err, gerrors.ErrInvalidPort)
}
