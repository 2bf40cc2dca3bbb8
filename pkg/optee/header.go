// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optee verifies OP-TEE images before they are booted and passes
// the OP-TEE device tree nodes on to the operating system.
package optee

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/xaionaro-go/bytesextra"
)

const (
	// Magic is "OPTE" in little-endian.
	Magic = 0x4554504f

	// Version is the supported header version.
	Version = 1

	// HeaderSize is the size of a version 1 header.
	HeaderSize = 28
)

// ErrShortHeader means the image is smaller than a header.
var ErrShortHeader = errors.New("image is too short for an OP-TEE header")

// Arch is the architecture the TEE is built for.
type Arch uint8

const (
	ArchARM   Arch = 0
	ArchARM64 Arch = 1
)

func (a Arch) String() string {
	switch a {
	case ArchARM:
		return "arm"
	case ArchARM64:
		return "aarch64"
	}
	return fmt.Sprintf("unknown_arch_%d", uint8(a))
}

// Header is the version 1 header at the start of an OP-TEE image
// (tee.bin). All fields are little-endian on the wire.
type Header struct {
	Magic          uint32
	Version        uint8
	Arch           Arch
	Flags          uint16
	InitSize       uint32
	InitLoadAddrHi uint32
	InitLoadAddrLo uint32
	InitMemUsage   uint32
	PagedSize      uint32
}

// ParseHeader decodes the header at the start of "b".
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < HeaderSize {
		return nil, fmt.Errorf("%d bytes: %w", len(b), ErrShortHeader)
	}
	h := &Header{}
	if _, err := h.ReadFrom(bytesextra.NewReadWriteSeeker(b[:HeaderSize])); err != nil {
		return nil, err
	}
	return h, nil
}

// ReadFrom implements io.ReaderFrom.
func (h *Header) ReadFrom(r io.Reader) (int64, error) {
	if err := binary.Read(r, binary.LittleEndian, h); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			err = ErrShortHeader
		}
		return 0, fmt.Errorf("unable to read the OP-TEE header: %w", err)
	}
	return HeaderSize, nil
}

// WriteTo implements io.WriterTo.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return 0, fmt.Errorf("unable to write the OP-TEE header: %w", err)
	}
	return HeaderSize, nil
}

// Bytes encodes the header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	if _, err := h.WriteTo(bytesextra.NewReadWriteSeeker(b)); err != nil {
		panic(err)
	}
	return b
}

// Update overwrites the header at the start of "image" with "h".
func (h *Header) Update(image []byte) error {
	if len(image) < HeaderSize {
		return fmt.Errorf("%d bytes: %w", len(image), ErrShortHeader)
	}
	_, err := h.WriteTo(bytesextra.NewReadWriteSeeker(image[:HeaderSize]))
	return err
}

// SetInitLoadAddr splits "addr" into InitLoadAddrHi and InitLoadAddrLo.
func (h *Header) SetInitLoadAddr(addr uint64) {
	h.InitLoadAddrHi = uint32(addr >> 32)
	h.InitLoadAddrLo = uint32(addr)
}

// FileSize is the image size the header declares: the header itself plus
// the init and paged parts.
func (h *Header) FileSize() uint64 {
	return HeaderSize + uint64(h.InitSize) + uint64(h.PagedSize)
}

// InitLoadAddr is the 64 bit load address of the init part.
func (h *Header) InitLoadAddr() uint64 {
	return uint64(h.InitLoadAddrHi)<<32 | uint64(h.InitLoadAddrLo)
}
