// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdt

import (
	"encoding/binary"
	"fmt"

	"github.com/u-root/u-root/pkg/dt"

	"github.com/linuxboot/imagesig/pkg/log"
)

const (
	defaultAddressCells = 2
	defaultSizeCells    = 1
	maxNCells           = 4
)

// AddressCells returns #address-cells of "n", which applies to its
// children. The default is 2.
func AddressCells(n *dt.Node) (int, error) {
	v, err := PropU32(n, "#address-cells")
	if err != nil {
		if _, ok := Prop(n, "#address-cells"); !ok {
			return defaultAddressCells, nil
		}
		return 0, err
	}
	if v == 0 || v > maxNCells {
		return 0, fmt.Errorf("#address-cells of '%s' is %d: %w", n.Name, v, ErrBadNCells)
	}
	return int(v), nil
}

// SizeCells returns #size-cells of "n", which applies to its children.
// The default is 1.
func SizeCells(n *dt.Node) (int, error) {
	v, err := PropU32(n, "#size-cells")
	if err != nil {
		if _, ok := Prop(n, "#size-cells"); !ok {
			return defaultSizeCells, nil
		}
		return 0, err
	}
	if v > maxNCells {
		return 0, fmt.Errorf("#size-cells of '%s' is %d: %w", n.Name, v, ErrBadNCells)
	}
	return int(v), nil
}

// Resource is an inclusive physical address range.
type Resource struct {
	Start uint64
	End   uint64
}

// Size returns the number of bytes in the range.
func (r Resource) Size() uint64 {
	return r.End - r.Start + 1
}

func (r Resource) String() string {
	return fmt.Sprintf("0x%x-0x%x", r.Start, r.End)
}

func readCells(b []byte, n int) (uint64, error) {
	if n > 2 {
		// only the low 64 bits are representable
		for _, v := range b[:(n-2)*4] {
			if v != 0 {
				return 0, fmt.Errorf("value does not fit 64 bits: %w", ErrBadValue)
			}
		}
		b = b[(n-2)*4:]
		n = 2
	}
	var v uint64
	for i := 0; i < n; i++ {
		v = v<<32 | uint64(binary.BigEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

func putCells(b []byte, n int, v uint64) ([]byte, error) {
	if n == 1 && v>>32 != 0 {
		return nil, fmt.Errorf("value 0x%x does not fit one cell: %w", v, ErrBadValue)
	}
	for i := n - 1; i >= 0; i-- {
		var cell uint32
		if i < 2 {
			cell = uint32(v >> (32 * uint(i)))
		}
		b = binary.BigEndian.AppendUint32(b, cell)
	}
	return b, nil
}

// ReadResource decodes entry "index" of the "reg" property of "n", using
// the cell sizes declared by its parent.
func ReadResource(parent, n *dt.Node, index int) (Resource, error) {
	na, err := AddressCells(parent)
	if err != nil {
		return Resource{}, err
	}
	ns, err := SizeCells(parent)
	if err != nil {
		return Resource{}, err
	}
	reg, ok := Prop(n, "reg")
	if !ok {
		return Resource{}, fmt.Errorf("'reg' of '%s': %w", n.Name, ErrNotFound)
	}
	entrySize := (na + ns) * 4
	if len(reg)%entrySize != 0 || index < 0 || (index+1)*entrySize > len(reg) {
		return Resource{}, fmt.Errorf("'reg' of '%s' has %d bytes, no entry #%d of %d bytes: %w",
			n.Name, len(reg), index, entrySize, ErrBadValue)
	}
	entry := reg[index*entrySize:]
	start, err := readCells(entry, na)
	if err != nil {
		return Resource{}, err
	}
	size, err := readCells(entry[na*4:], ns)
	if err != nil {
		return Resource{}, err
	}
	if size == 0 {
		return Resource{}, fmt.Errorf("'reg' of '%s' has zero size: %w", n.Name, ErrBadValue)
	}
	return Resource{Start: start, End: start + size - 1}, nil
}

// ReservedMemoryFlags modify the created reserved-memory node.
type ReservedMemoryFlags uint

const (
	// ReservedMemoryNoMap adds the "no-map" property: the OS must not
	// create a mapping of the region.
	ReservedMemoryNoMap ReservedMemoryFlags = 1 << iota
)

func (t *Tree) reservedMemoryNode() (*dt.Node, error) {
	if node, ok := t.Lookup("/reserved-memory"); ok {
		return node, nil
	}
	root := t.Root()
	node, err := t.AddSubnode(root, "reserved-memory")
	if err != nil {
		return nil, err
	}
	for _, name := range []string{"#address-cells", "#size-cells"} {
		if value, ok := Prop(root, name); ok {
			SetProp(node, name, value)
		}
	}
	SetPropEmpty(node, "ranges")
	return node, nil
}

// AddReservedMemory registers "carveout" as a child of /reserved-memory,
// creating /reserved-memory if needed. The child is named
// "basename@start", or "basename-index@start" if index is not zero.
//
// If a child with exactly the same range already exists, it is returned
// and the tree is left untouched.
func (t *Tree) AddReservedMemory(
	basename string,
	index uint,
	carveout Resource,
	flags ReservedMemoryFlags,
	compatibles ...string,
) (*dt.Node, error) {
	if carveout.End < carveout.Start {
		return nil, fmt.Errorf("carveout %s: %w", carveout, ErrBadValue)
	}
	parent, err := t.reservedMemoryNode()
	if err != nil {
		return nil, err
	}

	na, err := AddressCells(parent)
	if err != nil {
		return nil, err
	}
	ns, err := SizeCells(parent)
	if err != nil {
		return nil, err
	}
	if na > 2 || ns < 1 || ns > 2 {
		return nil, fmt.Errorf("reserved-memory cells %d/%d: %w", na, ns, ErrBadNCells)
	}

	for _, child := range parent.Children {
		res, err := ReadResource(parent, child, 0)
		if err != nil {
			log.Debugf("reserved-memory: unable to read the range of '%s': %v", child.Name, err)
			continue
		}
		if res == carveout {
			return child, nil
		}
	}

	name := fmt.Sprintf("%s@%x", basename, carveout.Start)
	if index != 0 {
		name = fmt.Sprintf("%s-%d@%x", basename, index, carveout.Start)
	}

	reg, err := putCells(nil, na, carveout.Start)
	if err != nil {
		return nil, err
	}
	if reg, err = putCells(reg, ns, carveout.Size()); err != nil {
		return nil, err
	}

	node, err := t.AddSubnode(parent, name)
	if err != nil {
		return nil, err
	}
	if flags&ReservedMemoryNoMap != 0 {
		SetPropEmpty(node, "no-map")
	}
	SetProp(node, "reg", reg)
	if len(compatibles) > 0 {
		SetPropStrings(node, "compatible", compatibles...)
	}
	return node, nil
}
