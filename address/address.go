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

// Package address provides the canonical representation of actor locations.
//
// An address identifies a single actor and is made of the following parts:
//
//   - System: logical name of the actor system (the cluster name)
//   - Host: network host or IP where the actor system is reachable
//   - Port: TCP port where the actor system is reachable
//   - Name: local name of the actor within the system
//
// The canonical textual representation of an Address is:
//
//	entitystore://<system>@<host>:<port>/<name>
//
// The node part, without the actor name, identifies the process owning the actor:
//
//	entitystore://<system>@<host>:<port>
package address

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/internal/validation"
)

// scheme defines the addressing scheme
const scheme = "entitystore"

// Address represents the address of an actor. Addresses are immutable and
// safe to share between goroutines. They travel inside messages as reply-to
// handles, hence they implement encoding.BinaryMarshaler.
type Address struct {
	system string
	host   string
	port   int
	name   string
}

var _ validation.Validator = (*Address)(nil)

// New creates a new Address with the given attributes. New does not validate
// the inputs; call Validate to verify the resulting address.
func New(name, system, host string, port int) *Address {
	return &Address{
		system: system,
		host:   host,
		port:   port,
		name:   name,
	}
}

// NoSender returns a sentinel Address that represents the absence of a sender.
func NoSender() *Address {
	return &Address{}
}

// Parse parses the canonical representation produced by String.
func Parse(text string) (*Address, error) {
	rest, ok := strings.CutPrefix(text, scheme+"://")
	if !ok {
		return nil, fmt.Errorf("%w: missing scheme in %q", gerrors.ErrInvalidAddress, text)
	}

	system, rest, ok := strings.Cut(rest, "@")
	if !ok {
		return nil, fmt.Errorf("%w: missing system in %q", gerrors.ErrInvalidAddress, text)
	}

	hostPort, name, _ := strings.Cut(rest, "/")
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gerrors.ErrInvalidAddress, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gerrors.ErrInvalidAddress, err)
	}

	return New(name, system, host, port), nil
}

// Name returns the actor name component of the Address.
func (x *Address) Name() string {
	if x == nil {
		return ""
	}
	return x.name
}

// System returns the actor system name.
func (x *Address) System() string {
	if x == nil {
		return ""
	}
	return x.system
}

// Host returns the host component.
func (x *Address) Host() string {
	if x == nil {
		return ""
	}
	return x.host
}

// Port returns the port component.
func (x *Address) Port() int {
	if x == nil {
		return 0
	}
	return x.port
}

// HostPort returns the host:port pair. It is used as the node identifier
// in the cluster.
func (x *Address) HostPort() string {
	if x == nil || x.host == "" {
		return ""
	}
	return net.JoinHostPort(x.host, strconv.Itoa(x.port))
}

// NodeAddress returns the address of the node hosting the actor,
// i.e. the canonical form without the actor name.
func (x *Address) NodeAddress() string {
	if x.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s://%s@%s", scheme, x.system, x.HostPort())
}

// WithName returns a copy of the address pointing at another actor on the same node.
func (x *Address) WithName(name string) *Address {
	return New(name, x.System(), x.Host(), x.Port())
}

// IsZero reports whether the address is the NoSender sentinel.
func (x *Address) IsZero() bool {
	return x == nil || (x.system == "" && x.host == "" && x.port == 0 && x.name == "")
}

// IsRemote reports whether the address is hosted on a node other than the one
// identified by the given host and port.
func (x *Address) IsRemote(host string, port int) bool {
	return !x.IsZero() && (x.host != host || x.port != port)
}

// Equals is used to compare two addresses
func (x *Address) Equals(other *Address) bool {
	if x.IsZero() || other.IsZero() {
		return x.IsZero() && other.IsZero()
	}
	return strings.EqualFold(x.system, other.system) &&
		x.host == other.host &&
		x.port == other.port &&
		x.name == other.name
}

// String returns the canonical String representation of this Address
func (x *Address) String() string {
	if x.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s/%s", x.NodeAddress(), x.name)
}

// Validate checks whether the address is valid.
// The NoSender sentinel is considered valid.
func (x *Address) Validate() error {
	if x.IsZero() {
		return nil
	}
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("system", x.system)).
		AddValidator(validation.NewEmptyStringValidator("name", x.name)).
		AddValidator(validation.NewTCPAddressValidator(x.HostPort())).
		AddAssertion(!strings.ContainsAny(x.name, "/@"), "actor name must not contain '/' or '@'").
		Validate()
}

// MarshalBinary encodes the address as its canonical text.
func (x *Address) MarshalBinary() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalBinary decodes an address produced by MarshalBinary.
func (x *Address) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		*x = Address{}
		return nil
	}

	addr, err := Parse(string(data))
	if err != nil {
		return err
	}

	*x = *addr
	return nil
}
