// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hash

import (
	stdhash "hash"
)

const (
	crc16Size         = 2
	crc16CCITTPoly    = 0x1021
	crc16CCITTInitial = 0
)

var crc16CCITTTable = makeCRC16Table(crc16CCITTPoly)

func makeCRC16Table(poly uint16) *[256]uint16 {
	var table [256]uint16
	for i := range table {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return &table
}

// crc16CCITT is the CRC-16/CCITT variant with a zero initial value
// (a.k.a. XMODEM), as used by boot images.
type crc16CCITT struct {
	crc uint16
}

var _ stdhash.Hash = (*crc16CCITT)(nil)

func newCRC16CCITT() stdhash.Hash {
	return &crc16CCITT{crc: crc16CCITTInitial}
}

func (d *crc16CCITT) Write(p []byte) (int, error) {
	crc := d.crc
	for _, b := range p {
		crc = crc<<8 ^ crc16CCITTTable[byte(crc>>8)^b]
	}
	d.crc = crc
	return len(p), nil
}

// Sum appends the big-endian checksum to b.
func (d *crc16CCITT) Sum(b []byte) []byte {
	return append(b, byte(d.crc>>8), byte(d.crc))
}

func (d *crc16CCITT) Reset() {
	d.crc = crc16CCITTInitial
}

func (d *crc16CCITT) Size() int {
	return crc16Size
}

func (d *crc16CCITT) BlockSize() int {
	return 1
}
