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

package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/entitystore/errors"
)

func TestAddress(t *testing.T) {
	t.Run("With canonical form", func(t *testing.T) {
		addr := New("shard-region", "cluster", "127.0.0.1", 2551)
		assert.Equal(t, "entitystore://cluster@127.0.0.1:2551/shard-region", addr.String())
		assert.Equal(t, "entitystore://cluster@127.0.0.1:2551", addr.NodeAddress())
		assert.Equal(t, "127.0.0.1:2551", addr.HostPort())
		assert.NoError(t, addr.Validate())
	})
	t.Run("With parse round trip", func(t *testing.T) {
		addr := New("entity-2551-7", "cluster", "127.0.0.2", 2552)
		parsed, err := Parse(addr.String())
		require.NoError(t, err)
		assert.True(t, addr.Equals(parsed))
	})
	t.Run("With invalid text", func(t *testing.T) {
		for _, text := range []string{"", "http://a@b:1/c", "entitystore://nohost", "entitystore://s@host/c", "entitystore://s@host:x/c"} {
			_, err := Parse(text)
			assert.ErrorIs(t, err, gerrors.ErrInvalidAddress, text)
		}
	})
	t.Run("With NoSender", func(t *testing.T) {
		sender := NoSender()
		assert.True(t, sender.IsZero())
		assert.Empty(t, sender.String())
		assert.Empty(t, sender.NodeAddress())
		assert.NoError(t, sender.Validate())
		assert.True(t, sender.Equals(nil))

		var nilAddr *Address
		assert.True(t, nilAddr.IsZero())
		assert.Empty(t, nilAddr.Name())
	})
	t.Run("With binary marshaling", func(t *testing.T) {
		addr := New("pinger", "cluster", "127.0.0.1", 2553)
		bytea, err := addr.MarshalBinary()
		require.NoError(t, err)

		actual := new(Address)
		require.NoError(t, actual.UnmarshalBinary(bytea))
		assert.True(t, addr.Equals(actual))

		zero := new(Address)
		require.NoError(t, zero.UnmarshalBinary(nil))
		assert.True(t, zero.IsZero())
	})
	t.Run("With remote detection", func(t *testing.T) {
		addr := New("pinger", "cluster", "127.0.0.1", 2553)
		assert.False(t, addr.IsRemote("127.0.0.1", 2553))
		assert.True(t, addr.IsRemote("127.0.0.1", 2551))
		assert.False(t, NoSender().IsRemote("127.0.0.1", 2551))
		assert.Equal(t, "entitystore://cluster@127.0.0.1:2553/aggregator", addr.WithName("aggregator").String())
	})
	t.Run("With invalid address", func(t *testing.T) {
		assert.Error(t, New("", "cluster", "127.0.0.1", 2551).Validate())
		assert.Error(t, New("a/b", "cluster", "127.0.0.1", 2551).Validate())
		assert.Error(t, New("a", "cluster", "127.0.0.1", 0).Validate())
	})
}
