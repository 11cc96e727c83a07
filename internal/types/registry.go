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

package types

import (
	"reflect"
	"strings"

	"github.com/tochemey/entitystore/internal/xsync"
)

// Registry maps wire type names to Go types
type Registry struct {
	types *xsync.Map[string, reflect.Type]
}

// NewRegistry creates a new types registry
func NewRegistry() *Registry {
	return &Registry{types: xsync.NewMap[string, reflect.Type]()}
}

// Register records the type of the given value. Pass a pointer to the zero value.
func (r *Registry) Register(v any) {
	r.types.Set(Name(v), elemType(v))
}

// Exists return true when a given object is in the registry
func (r *Registry) Exists(v any) bool {
	_, ok := r.types.Get(Name(v))
	return ok
}

// TypeOf returns the type registered under the given name
func (r *Registry) TypeOf(name string) (reflect.Type, bool) {
	return r.types.Get(lowTrim(name))
}

// Name returns the wire name of a given value
func Name(v any) string {
	return lowTrim(elemType(v).String())
}

func elemType(v any) reflect.Type {
	if rtype, ok := v.(reflect.Type); ok {
		return rtype
	}
	rtype := reflect.TypeOf(v)
	if rtype.Kind() == reflect.Pointer {
		return rtype.Elem()
	}
	return rtype
}

// lowTrim trim any space and lower the string value
func lowTrim(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
