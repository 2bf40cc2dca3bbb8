// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !imagesig_nosm3
// +build !imagesig_nosm3

package imagesig

import (
	"github.com/linuxboot/imagesig/pkg/hash"
)

var checksumSM3 = &ChecksumAlgorithm{
	Name:        "sm3",
	ChecksumLen: 32,
	DERPrefix:   []byte{0x30, 0x30, 0x30, 0x0c, 0x06, 0x08, 0x2a, 0x81, 0x1c, 0xcf, 0x55, 0x01, 0x83, 0x11, 0x05, 0x00, 0x04, 0x20},
	Calculate:   hash.CalculateInto,
}
