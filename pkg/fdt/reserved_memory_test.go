// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCells(t *testing.T) {
	tree := New()
	root := tree.Root()

	na, err := AddressCells(root)
	require.NoError(t, err)
	assert.Equal(t, 2, na)
	ns, err := SizeCells(root)
	require.NoError(t, err)
	assert.Equal(t, 1, ns)

	SetPropU32(root, "#address-cells", 0)
	_, err = AddressCells(root)
	assert.ErrorIs(t, err, ErrBadNCells)

	SetProp(root, "#size-cells", []byte{1})
	_, err = SizeCells(root)
	assert.ErrorIs(t, err, ErrBadValue)
}

func TestReadResource(t *testing.T) {
	tree := sampleTree(t)
	memory, _ := tree.Lookup("/memory")

	res, err := ReadResource(tree.Root(), memory, 0)
	require.NoError(t, err)
	assert.Equal(t, Resource{Start: 0x80000000, End: 0xbfffffff}, res)
	assert.Equal(t, uint64(0x40000000), res.Size())

	_, err = ReadResource(tree.Root(), memory, 1)
	assert.ErrorIs(t, err, ErrBadValue)

	firmware, _ := tree.Lookup("/firmware")
	_, err = ReadResource(tree.Root(), firmware, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	parent := New().Root()
	SetPropU32(parent, "#address-cells", 1)
	SetPropU32(parent, "#size-cells", 1)
	child, err := New().AddSubnode(parent, "sram@1000")
	require.NoError(t, err)
	SetProp(child, "reg", []byte{0, 0, 0x10, 0, 0, 0, 0x02, 0, 0, 0, 0x20, 0, 0, 0, 0, 0x10})
	res, err = ReadResource(parent, child, 1)
	require.NoError(t, err)
	assert.Equal(t, Resource{Start: 0x2000, End: 0x200f}, res)

	SetProp(child, "reg", []byte{0, 0, 0x10, 0, 0, 0, 0, 0})
	_, err = ReadResource(parent, child, 0)
	assert.ErrorIs(t, err, ErrBadValue)
}

func TestAddReservedMemory(t *testing.T) {
	tree := sampleTree(t)
	carveout := Resource{Start: 0x8e000000, End: 0x8fffffff}

	node, err := tree.AddReservedMemory("optee_core", 0, carveout, ReservedMemoryNoMap)
	require.NoError(t, err)
	assert.Equal(t, "optee_core@8e000000", node.Name)

	parent, ok := tree.Lookup("/reserved-memory")
	require.True(t, ok)
	na, _ := AddressCells(parent)
	ns, _ := SizeCells(parent)
	assert.Equal(t, 2, na)
	assert.Equal(t, 2, ns)
	ranges, ok := Prop(parent, "ranges")
	require.True(t, ok)
	assert.Empty(t, ranges)

	noMap, ok := Prop(node, "no-map")
	require.True(t, ok)
	assert.Empty(t, noMap)

	reg, _ := Prop(node, "reg")
	assert.Equal(t, []byte{0, 0, 0, 0, 0x8e, 0, 0, 0, 0, 0, 0, 0, 0x02, 0, 0, 0}, reg)
	res, err := ReadResource(parent, node, 0)
	require.NoError(t, err)
	assert.Equal(t, carveout, res)

	again, err := tree.AddReservedMemory("something_else", 0, carveout, 0)
	require.NoError(t, err)
	assert.Same(t, node, again)
	assert.Len(t, parent.Children, 1)

	other, err := tree.AddReservedMemory("optee_shm", 2, Resource{Start: 0x8dc00000, End: 0x8dffffff}, 0, "restricted-dma-pool")
	require.NoError(t, err)
	assert.Equal(t, "optee_shm-2@8dc00000", other.Name)
	_, ok = Prop(other, "no-map")
	assert.False(t, ok)
	compatible, err := PropString(other, "compatible")
	require.NoError(t, err)
	assert.Equal(t, "restricted-dma-pool", compatible)

	_, err = tree.AddReservedMemory("optee_core", 0, Resource{Start: 0x8e000000, End: 0x8e0fffff}, 0)
	assert.ErrorIs(t, err, ErrExists)
}

func TestAddReservedMemoryNarrowCells(t *testing.T) {
	tree := New()
	SetPropU32(tree.Root(), "#address-cells", 1)
	SetPropU32(tree.Root(), "#size-cells", 1)

	node, err := tree.AddReservedMemory("optee", 0, Resource{Start: 0x1000, End: 0x1fff}, ReservedMemoryNoMap)
	require.NoError(t, err)
	reg, _ := Prop(node, "reg")
	assert.Equal(t, []byte{0, 0, 0x10, 0, 0, 0, 0x10, 0}, reg)

	_, err = tree.AddReservedMemory("high", 0, Resource{Start: 1 << 32, End: 1<<32 + 0xfff}, 0)
	assert.ErrorIs(t, err, ErrBadValue)
}
