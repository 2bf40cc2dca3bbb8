// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdt

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/u-root/u-root/pkg/dt"
)

// Prop returns the raw value of property "name" of "n".
func Prop(n *dt.Node, name string) ([]byte, bool) {
	for idx := range n.Properties {
		if n.Properties[idx].Name == name {
			return n.Properties[idx].Value, true
		}
	}
	return nil, false
}

// PropString returns a NUL-terminated string property.
func PropString(n *dt.Node, name string) (string, error) {
	value, ok := Prop(n, name)
	if !ok {
		return "", fmt.Errorf("property '%s' of '%s': %w", name, n.Name, ErrNotFound)
	}
	if len(value) == 0 || value[len(value)-1] != 0 {
		return "", fmt.Errorf("property '%s' of '%s' is not a string: %w", name, n.Name, ErrBadValue)
	}
	return strings.SplitN(string(value), "\x00", 2)[0], nil
}

// PropU32 returns a single cell property.
func PropU32(n *dt.Node, name string) (uint32, error) {
	value, ok := Prop(n, name)
	if !ok {
		return 0, fmt.Errorf("property '%s' of '%s': %w", name, n.Name, ErrNotFound)
	}
	if len(value) != 4 {
		return 0, fmt.Errorf("property '%s' of '%s' has %d bytes, expected 4: %w", name, n.Name, len(value), ErrBadValue)
	}
	return binary.BigEndian.Uint32(value), nil
}

// SetProp sets property "name" of "n" to a copy of "value", replacing an
// existing property with the same name.
func SetProp(n *dt.Node, name string, value []byte) {
	value = append([]byte{}, value...)
	for idx := range n.Properties {
		if n.Properties[idx].Name == name {
			n.Properties[idx].Value = value
			return
		}
	}
	n.Properties = append(n.Properties, dt.Property{Name: name, Value: value})
}

// SetPropString sets a NUL-terminated string property.
func SetPropString(n *dt.Node, name, value string) {
	SetProp(n, name, append([]byte(value), 0))
}

// SetPropStrings sets a string list property.
func SetPropStrings(n *dt.Node, name string, values ...string) {
	var b []byte
	for _, v := range values {
		b = append(b, v...)
		b = append(b, 0)
	}
	SetProp(n, name, b)
}

// SetPropEmpty sets a boolean (zero length) property.
func SetPropEmpty(n *dt.Node, name string) {
	SetProp(n, name, nil)
}

// SetPropU32 sets a single cell property.
func SetPropU32(n *dt.Node, name string, value uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], value)
	SetProp(n, name, b[:])
}

// RemoveProp deletes property "name" of "n" and reports if it existed.
func RemoveProp(n *dt.Node, name string) bool {
	for idx := range n.Properties {
		if n.Properties[idx].Name == name {
			n.Properties = append(n.Properties[:idx], n.Properties[idx+1:]...)
			return true
		}
	}
	return false
}
