// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !imagesig_nosha384
// +build !imagesig_nosha384

package imagesig

import (
	"github.com/linuxboot/imagesig/pkg/hash"
)

var checksumSHA384 = &ChecksumAlgorithm{
	Name:        "sha384",
	ChecksumLen: 48,
	DERPrefix:   []byte{0x30, 0x41, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x02, 0x05, 0x00, 0x04, 0x30},
	Calculate:   hash.CalculateInto,
}
