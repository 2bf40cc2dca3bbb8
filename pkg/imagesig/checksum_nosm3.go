// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build imagesig_nosm3
// +build imagesig_nosm3

package imagesig

var checksumSM3 *ChecksumAlgorithm
