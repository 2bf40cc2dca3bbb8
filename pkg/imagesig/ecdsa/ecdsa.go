// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ecdsa implements the ECDSA crypto algorithms of image
// signatures. Signatures are the raw concatenation r || s, each of the
// coordinate size.
package ecdsa

import (
	"crypto"
	stdecdsa "crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/u-root/u-root/pkg/dt"

	"github.com/linuxboot/imagesig/pkg/fdt"
	"github.com/linuxboot/imagesig/pkg/hash"
	"github.com/linuxboot/imagesig/pkg/imagesig"
)

var (
	// ErrBadKey means a key node does not describe a usable ECDSA key.
	ErrBadKey = errors.New("invalid ECDSA key")

	// ErrBadSignature means the signature does not verify.
	ErrBadSignature = errors.New("ECDSA signature mismatch")
)

// Algorithm is an ECDSA crypto algorithm over a fixed curve.
type Algorithm struct {
	name      string
	curveName string
	curve     elliptic.Curve
}

var (
	ECDSA256 = &Algorithm{name: "ecdsa256", curveName: "prime256v1", curve: elliptic.P256()}
	ECDSA384 = &Algorithm{name: "ecdsa384", curveName: "secp384r1", curve: elliptic.P384()}
)

var _ imagesig.CryptoAlgorithm = (*Algorithm)(nil)

// Algorithms returns the ECDSA crypto algorithms.
func Algorithms() []imagesig.CryptoAlgorithm {
	return []imagesig.CryptoAlgorithm{ECDSA256, ECDSA384}
}

func (a *Algorithm) Name() string {
	return a.name
}

// KeyLen is the coordinate size in bytes.
func (a *Algorithm) KeyLen() int {
	return (a.curve.Params().BitSize + 7) / 8
}

// PublicKeyFromNode decodes the key stored in a /signature key node. The
// curve of the node must be the one of the algorithm.
func (a *Algorithm) PublicKeyFromNode(key *dt.Node) (*stdecdsa.PublicKey, error) {
	curveName, err := fdt.PropString(key, "ecdsa,curve")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	if curveName != a.curveName {
		return nil, fmt.Errorf("%w: curve '%s', expected '%s'", ErrBadKey, curveName, a.curveName)
	}

	pub := &stdecdsa.PublicKey{Curve: a.curve}
	for _, coord := range []struct {
		prop string
		out  **big.Int
	}{
		{"ecdsa,x-point", &pub.X},
		{"ecdsa,y-point", &pub.Y},
	} {
		value, ok := fdt.Prop(key, coord.prop)
		if !ok {
			return nil, fmt.Errorf("%w: no '%s'", ErrBadKey, coord.prop)
		}
		if len(value) != a.KeyLen() {
			return nil, fmt.Errorf("%w: '%s' is %d bytes, expected %d", ErrBadKey, coord.prop, len(value), a.KeyLen())
		}
		*coord.out = new(big.Int).SetBytes(value)
	}
	if !a.curve.IsOnCurve(pub.X, pub.Y) {
		return nil, fmt.Errorf("%w: point is not on %s", ErrBadKey, a.curveName)
	}
	return pub, nil
}

// AddVerifyData implements imagesig.CryptoAlgorithm.
func (a *Algorithm) AddVerifyData(
	keys *fdt.Tree,
	algoName, keyName string,
	pub crypto.PublicKey,
	required string,
) (*dt.Node, error) {
	ecPub, ok := pub.(*stdecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an ECDSA public key", ErrBadKey, pub)
	}
	if ecPub.Curve != a.curve {
		return nil, fmt.Errorf("%w: %s needs a key on %s", ErrBadKey, a.name, a.curveName)
	}

	key, err := imagesig.AddKeyNode(keys, algoName, keyName, required)
	if err != nil {
		return nil, err
	}
	fdt.SetPropString(key, "ecdsa,curve", a.curveName)
	fdt.SetProp(key, "ecdsa,x-point", ecPub.X.FillBytes(make([]byte, a.KeyLen())))
	fdt.SetProp(key, "ecdsa,y-point", ecPub.Y.FillBytes(make([]byte, a.KeyLen())))
	return key, nil
}

// Verify implements imagesig.CryptoAlgorithm. The padding of info is not
// used.
func (a *Algorithm) Verify(info *imagesig.SignInfo, regions []hash.Region, sig []byte) error {
	if len(sig) != 2*a.KeyLen() {
		return fmt.Errorf("%s signature is %d bytes, expected %d: %w", a.name, len(sig), 2*a.KeyLen(), imagesig.ErrVerify)
	}
	digest, err := info.Checksum.Sum(regions)
	if err != nil {
		return err
	}
	r := new(big.Int).SetBytes(sig[:a.KeyLen()])
	s := new(big.Int).SetBytes(sig[a.KeyLen():])

	return info.ForEachKey(func(key *dt.Node) error {
		pub, err := a.PublicKeyFromNode(key)
		if err != nil {
			return err
		}
		if !stdecdsa.Verify(pub, digest, r, s) {
			return ErrBadSignature
		}
		return nil
	})
}
