// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build imagesig_nosha384
// +build imagesig_nosha384

package imagesig

var checksumSHA384 *ChecksumAlgorithm
