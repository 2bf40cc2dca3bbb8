// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rsa implements the RSA crypto algorithms and the RSA paddings of
// image signatures.
package rsa

import (
	"crypto"
	stdrsa "crypto/rsa"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/u-root/u-root/pkg/dt"

	"github.com/linuxboot/imagesig/pkg/fdt"
	"github.com/linuxboot/imagesig/pkg/hash"
	"github.com/linuxboot/imagesig/pkg/imagesig"
)

const defaultExponent = 65537

var (
	// ErrBadKey means a key node does not describe a usable RSA key.
	ErrBadKey = errors.New("invalid RSA key")

	// ErrPadding means the recovered message is not a valid encoding.
	ErrPadding = errors.New("invalid padding")

	// ErrDigestMismatch means the encoding is valid, but for another
	// digest.
	ErrDigestMismatch = errors.New("digest mismatch")
)

// Algorithm is an RSA crypto algorithm of a fixed modulus size.
type Algorithm struct {
	name string
	bits int
}

var (
	RSA2048 = &Algorithm{name: "rsa2048", bits: 2048}
	RSA3072 = &Algorithm{name: "rsa3072", bits: 3072}
	RSA4096 = &Algorithm{name: "rsa4096", bits: 4096}
)

var _ imagesig.CryptoAlgorithm = (*Algorithm)(nil)

// Algorithms returns the RSA crypto algorithms.
func Algorithms() []imagesig.CryptoAlgorithm {
	return []imagesig.CryptoAlgorithm{RSA2048, RSA3072, RSA4096}
}

// Name implements imagesig.CryptoAlgorithm.
func (a *Algorithm) Name() string {
	return a.name
}

// KeyLen implements imagesig.CryptoAlgorithm.
func (a *Algorithm) KeyLen() int {
	return a.bits / 8
}

// PublicKeyFromNode decodes the key stored in a /signature key node.
func PublicKeyFromNode(key *dt.Node) (*stdrsa.PublicKey, error) {
	numBits, err := fdt.PropU32(key, "rsa,num-bits")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	modulus, ok := fdt.Prop(key, "rsa,modulus")
	if !ok {
		return nil, fmt.Errorf("%w: no 'rsa,modulus'", ErrBadKey)
	}
	if numBits == 0 || numBits%8 != 0 || len(modulus) != int(numBits/8) {
		return nil, fmt.Errorf("%w: modulus is %d bytes, num-bits is %d", ErrBadKey, len(modulus), numBits)
	}

	exponent := uint64(defaultExponent)
	if value, ok := fdt.Prop(key, "rsa,exponent"); ok {
		if len(value) != 8 {
			return nil, fmt.Errorf("%w: exponent is %d bytes", ErrBadKey, len(value))
		}
		if e := binary.BigEndian.Uint64(value); e != 0 {
			exponent = e
		}
	}
	if exponent > 1<<31-1 {
		return nil, fmt.Errorf("%w: exponent 0x%x is too large", ErrBadKey, exponent)
	}

	pub := &stdrsa.PublicKey{
		N: new(big.Int).SetBytes(modulus),
		E: int(exponent),
	}
	if pub.N.BitLen() != int(numBits) {
		return nil, fmt.Errorf("%w: modulus has %d bits, num-bits is %d", ErrBadKey, pub.N.BitLen(), numBits)
	}
	return pub, nil
}

// AddVerifyData implements imagesig.CryptoAlgorithm.
//
// Besides the modulus and the exponent the node carries the Montgomery
// parameters "rsa,n0-inverse" and "rsa,r-squared" used by boot loaders
// without a bignum library.
func (a *Algorithm) AddVerifyData(
	keys *fdt.Tree,
	algoName, keyName string,
	pub crypto.PublicKey,
	required string,
) (*dt.Node, error) {
	rsaPub, ok := pub.(*stdrsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an RSA public key", ErrBadKey, pub)
	}
	if rsaPub.N.BitLen() != a.bits {
		return nil, fmt.Errorf("%w: %s needs a %d bit modulus, got %d", ErrBadKey, a.name, a.bits, rsaPub.N.BitLen())
	}
	if rsaPub.E <= 0 {
		return nil, fmt.Errorf("%w: exponent %d", ErrBadKey, rsaPub.E)
	}

	n0Inv, rSquared := montgomeryParams(rsaPub.N, a.bits)

	key, err := imagesig.AddKeyNode(keys, algoName, keyName, required)
	if err != nil {
		return nil, err
	}
	fdt.SetPropU32(key, "rsa,num-bits", uint32(a.bits))
	fdt.SetPropU32(key, "rsa,n0-inverse", n0Inv)
	fdt.SetProp(key, "rsa,r-squared", rSquared.FillBytes(make([]byte, a.KeyLen())))
	fdt.SetProp(key, "rsa,modulus", rsaPub.N.FillBytes(make([]byte, a.KeyLen())))
	fdt.SetProp(key, "rsa,exponent", binary.BigEndian.AppendUint64(nil, uint64(rsaPub.E)))
	return key, nil
}

// montgomeryParams returns -1/n mod 2^32 and (2^bits)^2 mod n.
func montgomeryParams(n *big.Int, bits int) (uint32, *big.Int) {
	b32 := new(big.Int).Lsh(big.NewInt(1), 32)
	inv := new(big.Int).ModInverse(new(big.Int).Mod(n, b32), b32)
	n0Inv := new(big.Int).Sub(b32, inv)

	rSquared := new(big.Int).Lsh(big.NewInt(1), uint(2*bits))
	rSquared.Mod(rSquared, n)
	return uint32(n0Inv.Uint64()), rSquared
}

// publicOp returns sig^e mod n as a big-endian message of the key length.
func publicOp(pub *stdrsa.PublicKey, sig []byte) ([]byte, error) {
	s := new(big.Int).SetBytes(sig)
	if s.Cmp(pub.N) >= 0 {
		return nil, fmt.Errorf("signature representative out of range: %w", imagesig.ErrVerify)
	}
	m := new(big.Int).Exp(s, big.NewInt(int64(pub.E)), pub.N)
	return m.FillBytes(make([]byte, len(sig))), nil
}

// Verify implements imagesig.CryptoAlgorithm.
func (a *Algorithm) Verify(info *imagesig.SignInfo, regions []hash.Region, sig []byte) error {
	if len(sig) != a.KeyLen() {
		return fmt.Errorf("%s signature is %d bytes, expected %d: %w", a.name, len(sig), a.KeyLen(), imagesig.ErrVerify)
	}
	digest, err := info.Checksum.Sum(regions)
	if err != nil {
		return err
	}

	return info.ForEachKey(func(key *dt.Node) error {
		pub, err := PublicKeyFromNode(key)
		if err != nil {
			return err
		}
		if pub.N.BitLen() != a.bits {
			return fmt.Errorf("%w: %d bit key for %s", ErrBadKey, pub.N.BitLen(), a.name)
		}
		msg, err := publicOp(pub, sig)
		if err != nil {
			return err
		}
		return info.Padding.Verify(info, msg, digest)
	})
}
