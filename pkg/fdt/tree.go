// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fdt is an owning document model of a flattened device tree.
//
// A Tree owns all of its nodes. Nodes are addressed by absolute paths with
// the same matching rules as libfdt: a path component without a unit
// address ("memory") matches a node with one ("memory@80000000").
package fdt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/u-root/u-root/pkg/dt"
	"github.com/xaionaro-go/bytesextra"
)

const (
	headerMagic           = 0xd00dfeed
	headerVersion         = 17
	headerLastCompVersion = 16
)

var (
	// ErrBadTree means the blob is not a valid device tree or the tree is nil.
	ErrBadTree = errors.New("bad device tree")

	// ErrNotFound means a node or property does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExists means a node with the same name already exists.
	ErrExists = errors.New("node already exists")

	// ErrBadNCells means #address-cells or #size-cells has an unsupported value.
	ErrBadNCells = errors.New("bad number of cells")

	// ErrBadValue means a property value has an unexpected length or content.
	ErrBadValue = errors.New("bad property value")
)

// Tree is a device tree document.
type Tree struct {
	fdt *dt.FDT
}

// New returns an empty tree containing only the root node.
func New() *Tree {
	return &Tree{fdt: &dt.FDT{
		Header: dt.Header{
			Magic:           headerMagic,
			Version:         headerVersion,
			LastCompVersion: headerLastCompVersion,
		},
		RootNode: &dt.Node{},
	}}
}

// FromFDT wraps an already parsed tree. The Tree takes ownership of "f".
func FromFDT(f *dt.FDT) (*Tree, error) {
	if f == nil || f.RootNode == nil {
		return nil, fmt.Errorf("no root node: %w", ErrBadTree)
	}
	return &Tree{fdt: f}, nil
}

// Load parses a flattened device tree blob.
func Load(blob []byte) (*Tree, error) {
	f, err := dt.ReadFDT(bytesextra.NewReadWriteSeeker(blob))
	if err != nil {
		return nil, fmt.Errorf("unable to parse the device tree blob: %v: %w", err, ErrBadTree)
	}
	return FromFDT(f)
}

// Bytes serializes the tree into a flattened device tree blob.
func (t *Tree) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := t.fdt.Write(&buf); err != nil {
		return nil, fmt.Errorf("unable to serialize the device tree: %w", err)
	}
	return buf.Bytes(), nil
}

// FDT returns the underlying tree.
func (t *Tree) FDT() *dt.FDT {
	return t.fdt
}

// Root returns the root node.
func (t *Tree) Root() *dt.Node {
	return t.fdt.RootNode
}

func matchName(nodeName, component string) bool {
	if nodeName == component {
		return true
	}
	return !strings.Contains(component, "@") && strings.HasPrefix(nodeName, component+"@")
}

func splitPath(path string) ([]string, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("path '%s' is not absolute: %w", path, ErrNotFound)
	}
	var components []string
	for _, c := range strings.Split(path, "/") {
		if c != "" {
			components = append(components, c)
		}
	}
	return components, nil
}

// Child returns the first child of "n" matching "name".
func Child(n *dt.Node, name string) (*dt.Node, bool) {
	for _, child := range n.Children {
		if matchName(child.Name, name) {
			return child, true
		}
	}
	return nil, false
}

// LookupParent returns the node at "path" together with its parent. The
// root node has no parent.
func (t *Tree) LookupParent(path string) (parent, node *dt.Node, ok bool) {
	components, err := splitPath(path)
	if err != nil {
		return nil, nil, false
	}
	node = t.Root()
	for _, c := range components {
		child, found := Child(node, c)
		if !found {
			return nil, nil, false
		}
		parent, node = node, child
	}
	return parent, node, true
}

// Lookup returns the node at "path".
func (t *Tree) Lookup(path string) (*dt.Node, bool) {
	_, node, ok := t.LookupParent(path)
	return node, ok
}

// AddSubnode creates an empty child "name" of "parent".
func (t *Tree) AddSubnode(parent *dt.Node, name string) (*dt.Node, error) {
	if name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("invalid node name '%s': %w", name, ErrBadValue)
	}
	if _, found := Child(parent, name); found {
		return nil, fmt.Errorf("'%s' under '%s': %w", name, parent.Name, ErrExists)
	}
	child := &dt.Node{Name: name}
	parent.Children = append(parent.Children, child)
	return child, nil
}

// DeleteNode removes the node at "path" with all its descendants.
func (t *Tree) DeleteNode(path string) error {
	parent, node, ok := t.LookupParent(path)
	if !ok {
		return fmt.Errorf("node '%s': %w", path, ErrNotFound)
	}
	if parent == nil {
		return fmt.Errorf("the root node cannot be deleted: %w", ErrBadValue)
	}
	for idx, child := range parent.Children {
		if child == node {
			parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
			break
		}
	}
	return nil
}
