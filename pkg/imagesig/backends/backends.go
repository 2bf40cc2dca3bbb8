// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backends links the available crypto and padding algorithms
// into a registry.
package backends

import (
	"github.com/linuxboot/imagesig/pkg/imagesig"
	"github.com/linuxboot/imagesig/pkg/imagesig/ecdsa"
	"github.com/linuxboot/imagesig/pkg/imagesig/rsa"
)

// Registry returns a registry of every built-in crypto and padding
// algorithm.
func Registry() *imagesig.Registry {
	var cryptos []imagesig.CryptoAlgorithm
	cryptos = append(cryptos, rsa.Algorithms()...)
	cryptos = append(cryptos, ecdsa.Algorithms()...)
	return imagesig.NewRegistry(cryptos, rsa.Paddings())
}
