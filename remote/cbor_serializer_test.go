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

package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/entitystore/address"
	gerrors "github.com/tochemey/entitystore/errors"
)

type testRequest struct {
	ID      string
	Amount  int
	ReplyTo *address.Address
}

type testUnregistered struct {
	Name string
}

func TestCBORSerializer(t *testing.T) {
	RegisterSerializableTypes(new(testRequest))
	serializer := NewCBORSerializer()

	t.Run("With registered type", func(t *testing.T) {
		replyTo := address.New("generator", "cluster", "127.0.0.1", 2551)
		bytea, err := serializer.Serialize(&testRequest{ID: "2551-7", Amount: 3, ReplyTo: replyTo})
		require.NoError(t, err)

		actual, err := serializer.Deserialize(bytea)
		require.NoError(t, err)
		msg, ok := actual.(*testRequest)
		require.True(t, ok)
		assert.Equal(t, "2551-7", msg.ID)
		assert.Equal(t, 3, msg.Amount)
		assert.True(t, replyTo.Equals(msg.ReplyTo))
	})
	t.Run("With nil address", func(t *testing.T) {
		bytea, err := serializer.Serialize(&testRequest{ID: "2551-1"})
		require.NoError(t, err)

		actual, err := serializer.Deserialize(bytea)
		require.NoError(t, err)
		assert.True(t, actual.(*testRequest).ReplyTo.IsZero())
	})
	t.Run("With unregistered type", func(t *testing.T) {
		_, err := serializer.Serialize(&testUnregistered{Name: "x"})
		assert.ErrorIs(t, err, gerrors.ErrTypeNotRegistered)
	})
	t.Run("With nil message", func(t *testing.T) {
		_, err := serializer.Serialize(nil)
		assert.ErrorIs(t, err, ErrNilMessage)
	})
	t.Run("With truncated frame", func(t *testing.T) {
		bytea, err := serializer.Serialize(&testRequest{ID: "2551-2"})
		require.NoError(t, err)

		_, err = serializer.Deserialize(bytea[:6])
		assert.ErrorIs(t, err, ErrInvalidFrame)
		_, err = serializer.Deserialize(bytea[:len(bytea)-1])
		assert.ErrorIs(t, err, ErrInvalidFrame)
	})
}

func TestEnvelope(t *testing.T) {
	RegisterSerializableTypes(new(testRequest))
	serializer := NewCBORSerializer()

	to := address.New("shard-region", "cluster", "127.0.0.1", 2552)
	from := address.New("shard-region", "cluster", "127.0.0.1", 2551)

	bytea, err := EncodeEnvelope(serializer, &Envelope{To: to, From: from, Message: &testRequest{ID: "2551-4"}})
	require.NoError(t, err)

	envelope, err := DecodeEnvelope(serializer, bytea)
	require.NoError(t, err)
	assert.True(t, to.Equals(envelope.To))
	assert.True(t, from.Equals(envelope.From))
	assert.Equal(t, "2551-4", envelope.Message.(*testRequest).ID)

	_, err = EncodeEnvelope(serializer, &Envelope{To: address.NoSender(), Message: &testRequest{}})
	assert.ErrorIs(t, err, gerrors.ErrInvalidMessage)
}
