// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !imagesig_nosha1
// +build !imagesig_nosha1

package imagesig

import (
	"github.com/linuxboot/imagesig/pkg/hash"
)

var checksumSHA1 = &ChecksumAlgorithm{
	Name:        "sha1",
	ChecksumLen: 20,
	DERPrefix:   []byte{0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x0e, 0x03, 0x02, 0x1a, 0x05, 0x00, 0x04, 0x14},
	Calculate:   hash.CalculateInto,
}
