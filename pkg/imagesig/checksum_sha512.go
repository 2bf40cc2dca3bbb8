// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !imagesig_nosha512
// +build !imagesig_nosha512

package imagesig

import (
	"github.com/linuxboot/imagesig/pkg/hash"
)

var checksumSHA512 = &ChecksumAlgorithm{
	Name:        "sha512",
	ChecksumLen: 64,
	DERPrefix:   []byte{0x30, 0x51, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40},
	Calculate:   hash.CalculateInto,
}
