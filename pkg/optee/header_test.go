// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	b := []byte{
		// magic
		0x4f, 0x50, 0x54, 0x45,
		// version
		0x01,
		// arch
		0x01,
		// flags
		0x34, 0x12,
		// init_size
		0x64, 0x00, 0x00, 0x00,
		// init_load_addr_hi
		0x00, 0x00, 0x00, 0x00,
		// init_load_addr_lo
		0x1c, 0x00, 0x00, 0x8e,
		// init_mem_usage
		0x00, 0x00, 0x10, 0x00,
		// paged_size
		0x32, 0x00, 0x00, 0x00,
		// payload
		0xde, 0xad,
	}
	h, err := ParseHeader(b)
	require.NoError(t, err)
	assert.Equal(t, &Header{
		Magic:          Magic,
		Version:        1,
		Arch:           ArchARM64,
		Flags:          0x1234,
		InitSize:       100,
		InitLoadAddrHi: 0,
		InitLoadAddrLo: 0x8e00001c,
		InitMemUsage:   0x100000,
		PagedSize:      50,
	}, h)
	assert.Equal(t, uint64(178), h.FileSize())
	assert.Equal(t, uint64(0x8e00001c), h.InitLoadAddr())
	assert.Equal(t, b[:HeaderSize], h.Bytes())
	assert.Equal(t, "aarch64", h.Arch.String())

	_, err = ParseHeader(b[:HeaderSize-1])
	assert.ErrorIs(t, err, ErrShortHeader)
}

func TestFileSizeDoesNotOverflow(t *testing.T) {
	h := &Header{InitSize: 0xffffffff, PagedSize: 0xffffffff}
	assert.Equal(t, uint64(HeaderSize)+2*0xffffffff, h.FileSize())
}

func TestUpdate(t *testing.T) {
	h := &Header{Magic: Magic, Version: Version, Arch: ArchARM, InitSize: 4}
	h.SetInitLoadAddr(0x1_8e00001c)
	assert.Equal(t, uint32(1), h.InitLoadAddrHi)
	assert.Equal(t, uint32(0x8e00001c), h.InitLoadAddrLo)

	image := append(make([]byte, HeaderSize), 1, 2, 3, 4)
	require.NoError(t, h.Update(image))
	assert.Equal(t, []byte{1, 2, 3, 4}, image[HeaderSize:])

	got, err := ParseHeader(image)
	require.NoError(t, err)
	assert.Equal(t, h, got)

	assert.ErrorIs(t, h.Update(image[:HeaderSize-1]), ErrShortHeader)
}
