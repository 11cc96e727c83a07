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

package testkit

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tochemey/entitystore/actor"
)

type pingMessage struct {
	Seq int
}

type echo struct{}

func (echo) PreStart(context.Context) error { return nil }
func (echo) PostStop(context.Context) error { return nil }
func (echo) Receive(ctx *actor.ReceiveContext) {
	if msg, ok := ctx.Message().(*pingMessage); ok {
		ctx.Reply(&pingMessage{Seq: msg.Seq + 1})
	}
}

func TestProbe(t *testing.T) {
	ctx := context.Background()
	system := NewActorSystem(t, 2551)

	_, err := system.Spawn(ctx, "echo", echo{})
	assert.NoError(t, err)

	probe := NewProbe(ctx, t, system)
	probe.Send("echo", &pingMessage{Seq: 1})
	probe.ExpectMessage(&pingMessage{Seq: 2})
	assert.Equal(t, "echo", probe.Sender().Name())

	probe.Send("echo", &pingMessage{Seq: 10})
	received := probe.ExpectMessageOfType(reflect.TypeOf(new(pingMessage)))
	assert.Equal(t, 11, received.(*pingMessage).Seq)

	probe.ExpectNoMessage()
	probe.Stop()
}
