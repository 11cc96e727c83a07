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
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/internal/types"
)

// typesRegistry resolves Go types from their wire names on the receive path.
var typesRegistry = types.NewRegistry()

var (
	// ErrNilMessage is returned when serializing a nil message
	ErrNilMessage = errors.New("remote: message is nil")

	// ErrSerializeFailed wraps CBOR marshaling failures
	ErrSerializeFailed = errors.New("remote: failed to serialize message")

	// ErrDeserializeFailed wraps CBOR unmarshaling failures
	ErrDeserializeFailed = errors.New("remote: failed to deserialize message")

	// ErrInvalidFrame is returned when a frame is truncated or its length
	// headers are inconsistent with the payload size.
	ErrInvalidFrame = errors.New("remote: malformed or truncated frame")

	cborEncOpts = cbor.EncOptions{
		Sort:        cbor.SortNone,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeUnixDynamic,
	}
	cborDecOpts = cbor.DecOptions{
		MaxNestedLevels: 64,
		IndefLength:     cbor.IndefLengthForbidden,
		UTF8:            cbor.UTF8DecodeInvalid,
	}
)

// CBORSerializer encodes messages with CBOR inside a length-prefixed frame
// that embeds the registered type name.
//
// All integers are big-endian uint32:
//
//	| totalLen | nameLen | type name | CBOR bytes |
//
// totalLen covers the entire frame including itself. CBORSerializer is
// stateless and safe for concurrent use.
type CBORSerializer struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

var _ Serializer = (*CBORSerializer)(nil)

// NewCBORSerializer returns a ready-to-use CBORSerializer.
// Types must be registered before use via RegisterSerializableTypes.
func NewCBORSerializer() *CBORSerializer {
	encMode, _ := cborEncOpts.EncMode()
	decMode, _ := cborDecOpts.DecMode()
	return &CBORSerializer{encMode: encMode, decMode: decMode}
}

// RegisterSerializableTypes registers one or more message types. Pass a
// pointer to the zero value of each type:
//
//	remote.RegisterSerializableTypes(new(entity.ChangeValue), new(stats.Ping))
func RegisterSerializableTypes(values ...any) {
	for _, v := range values {
		typesRegistry.Register(v)
	}
}

// Serialize implements Serializer.
func (s *CBORSerializer) Serialize(message any) ([]byte, error) {
	if message == nil || reflect.TypeOf(message) == nil {
		return nil, ErrNilMessage
	}

	name := types.Name(message)
	if _, ok := typesRegistry.TypeOf(name); !ok {
		return nil, fmt.Errorf("%w: %s", gerrors.ErrTypeNotRegistered, name)
	}

	payload, err := s.encMode.Marshal(message)
	if err != nil {
		return nil, errors.Join(ErrSerializeFailed, err)
	}

	nameLen := len(name)
	totalLen := 4 + 4 + nameLen + len(payload)
	out := make([]byte, 0, totalLen)

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(totalLen))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(nameLen))
	out = append(out, hdr[:]...)
	out = append(out, name...)
	out = append(out, payload...)
	return out, nil
}

// Deserialize implements Serializer. The returned value is a pointer to the
// decoded message.
func (s *CBORSerializer) Deserialize(data []byte) (any, error) {
	if len(data) < 8 {
		return nil, ErrInvalidFrame
	}

	totalLen := int(binary.BigEndian.Uint32(data[0:4]))
	if len(data) < totalLen || totalLen < 8 {
		return nil, ErrInvalidFrame
	}

	nameLen := int(binary.BigEndian.Uint32(data[4:8]))
	if 8+nameLen > totalLen {
		return nil, ErrInvalidFrame
	}

	name := string(data[8 : 8+nameLen])
	elemType, ok := typesRegistry.TypeOf(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", gerrors.ErrTypeNotRegistered, name)
	}

	ptr := reflect.New(elemType)
	if err := s.decMode.Unmarshal(data[8+nameLen:totalLen], ptr.Interface()); err != nil {
		return nil, errors.Join(ErrDeserializeFailed, err)
	}

	return ptr.Interface(), nil
}
