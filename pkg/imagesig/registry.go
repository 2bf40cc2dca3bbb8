// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagesig

import (
	"crypto"
	"strings"

	"github.com/u-root/u-root/pkg/dt"

	"github.com/linuxboot/imagesig/pkg/fdt"
	"github.com/linuxboot/imagesig/pkg/hash"
)

// CryptoAlgorithm is a public key signature scheme, e.g. "rsa2048".
type CryptoAlgorithm interface {
	// Name is the bare name, e.g. "rsa2048".
	Name() string

	// KeyLen is the key (and signature) length in bytes.
	KeyLen() int

	// AddVerifyData stores the public key as a key node named
	// "key-<keyName>" under /signature of "keys". "required" may be
	// empty, "conf" or "image".
	AddVerifyData(keys *fdt.Tree, algoName, keyName string, pub crypto.PublicKey, required string) (*dt.Node, error)

	// Verify checks "sig" over "regions" against the keys of info.
	Verify(info *SignInfo, regions []hash.Region, sig []byte) error
}

// PaddingAlgorithm checks the message recovered from a raw signature
// against a digest.
type PaddingAlgorithm interface {
	// Name is the bare name, e.g. "pkcs-1.5".
	Name() string

	// Verify checks that "msg" is a valid encoding of "digest".
	Verify(info *SignInfo, msg []byte, digest []byte) error
}

// Registry holds the crypto and padding algorithms available to the
// verifier. The checksum table is fixed at build time, while these are
// provided by the back-ends.
type Registry struct {
	cryptos  []CryptoAlgorithm
	paddings []PaddingAlgorithm
}

// NewRegistry returns a registry of the algorithms. Order matters only for
// listing: on a name collision the first entry wins.
func NewRegistry(cryptos []CryptoAlgorithm, paddings []PaddingAlgorithm) *Registry {
	return &Registry{
		cryptos:  append([]CryptoAlgorithm(nil), cryptos...),
		paddings: append([]PaddingAlgorithm(nil), paddings...),
	}
}

// GetCryptoAlgo returns the crypto algorithm of a compound name like
// "sha256,rsa2048", or nil if there is none.
//
// Only the part after the first delimiter is considered and it must
// match the name exactly. A name without a delimiter matches nothing.
func (r *Registry) GetCryptoAlgo(fullName string) CryptoAlgorithm {
	if r == nil {
		return nil
	}
	idx := strings.IndexByte(fullName, AlgoNameDelimiter)
	if idx < 0 {
		return nil
	}
	name := fullName[idx+1:]
	for _, algo := range r.cryptos {
		if algo.Name() == name {
			return algo
		}
	}
	return nil
}

// GetPaddingAlgo returns the padding algorithm named exactly "name", or
// nil if there is none.
func (r *Registry) GetPaddingAlgo(name string) PaddingAlgorithm {
	if r == nil || name == "" {
		return nil
	}
	for _, algo := range r.paddings {
		if algo.Name() == name {
			return algo
		}
	}
	return nil
}

// CryptoAlgorithms returns the registered crypto algorithms.
func (r *Registry) CryptoAlgorithms() []CryptoAlgorithm {
	if r == nil {
		return nil
	}
	return append([]CryptoAlgorithm(nil), r.cryptos...)
}

// PaddingAlgorithms returns the registered padding algorithms.
func (r *Registry) PaddingAlgorithms() []PaddingAlgorithm {
	if r == nil {
		return nil
	}
	return append([]PaddingAlgorithm(nil), r.paddings...)
}
