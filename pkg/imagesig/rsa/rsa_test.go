// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rsa

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	stdrsa "crypto/rsa"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/linuxboot/imagesig/pkg/fdt"
	"github.com/linuxboot/imagesig/pkg/hash"
	"github.com/linuxboot/imagesig/pkg/imagesig"
)

type RSASuite struct {
	suite.Suite

	priv     *stdrsa.PrivateKey
	other    *stdrsa.PrivateKey
	registry *imagesig.Registry
	regions  []hash.Region
}

func TestRSA(t *testing.T) {
	suite.Run(t, new(RSASuite))
}

func (s *RSASuite) SetupSuite() {
	var err error
	s.priv, err = stdrsa.GenerateKey(rand.Reader, 2048)
	s.Require().NoError(err)
	s.other, err = stdrsa.GenerateKey(rand.Reader, 2048)
	s.Require().NoError(err)
	s.registry = imagesig.NewRegistry(Algorithms(), Paddings())
	s.regions = []hash.Region{
		hash.Region("kernel image "),
		hash.Region("and a device tree"),
	}
}

func (s *RSASuite) digest(h crypto.Hash) []byte {
	d := h.New()
	for _, region := range s.regions {
		d.Write(region)
	}
	return d.Sum(nil)
}

func (s *RSASuite) keys(algo string, keys ...*stdrsa.PrivateKey) *fdt.Tree {
	tree := fdt.New()
	for idx, key := range keys {
		name := "dev"
		if idx > 0 {
			name = "prod"
		}
		_, err := RSA2048.AddVerifyData(tree, algo, name, &key.PublicKey, "conf")
		s.Require().NoError(err)
	}
	return tree
}

func (s *RSASuite) signInfo(algo, padding string, keys *fdt.Tree) *imagesig.SignInfo {
	info, err := s.registry.NewSignInfo(algo, padding, keys, "dev")
	s.Require().NoError(err)
	return info
}

func (s *RSASuite) TestPKCS15() {
	for _, tt := range []struct {
		algo string
		hash crypto.Hash
	}{
		{"sha1,rsa2048", crypto.SHA1},
		{"sha256,rsa2048", crypto.SHA256},
		{"sha384,rsa2048", crypto.SHA384},
		{"sha512,rsa2048", crypto.SHA512},
	} {
		if imagesig.GetChecksumAlgo(tt.algo) == nil {
			continue
		}
		sig, err := stdrsa.SignPKCS1v15(rand.Reader, s.priv, tt.hash, s.digest(tt.hash))
		s.Require().NoError(err)

		info := s.signInfo(tt.algo, "", s.keys(tt.algo, s.priv))
		s.NoError(info.Verify(s.regions, sig), tt.algo)

		tampered := append([]hash.Region{}, s.regions...)
		tampered[1] = hash.Region("and another device tree")
		err = info.Verify(tampered, sig)
		s.ErrorIs(err, imagesig.ErrVerify, tt.algo)
		s.ErrorIs(err, ErrDigestMismatch, tt.algo)
	}
}

func (s *RSASuite) TestPSS() {
	for _, saltLength := range []int{stdrsa.PSSSaltLengthEqualsHash, stdrsa.PSSSaltLengthAuto, 5} {
		sig, err := stdrsa.SignPSS(rand.Reader, s.priv, crypto.SHA256, s.digest(crypto.SHA256), &stdrsa.PSSOptions{
			SaltLength: saltLength,
		})
		s.Require().NoError(err)

		info := s.signInfo("sha256,rsa2048", "pss", s.keys("sha256,rsa2048", s.priv))
		s.NoError(info.Verify(s.regions, sig), saltLength)

		s.ErrorIs(info.Verify(s.regions[:1], sig), ErrDigestMismatch)

		// a PSS signature does not pass as PKCS#1 v1.5
		info.Padding = PKCS15
		s.ErrorIs(info.Verify(s.regions, sig), ErrPadding)
	}
}

func (s *RSASuite) TestKeySelection() {
	sig, err := stdrsa.SignPKCS1v15(rand.Reader, s.other, crypto.SHA256, s.digest(crypto.SHA256))
	s.Require().NoError(err)

	keys := s.keys("sha256,rsa2048", s.priv, s.other)
	info := s.signInfo("sha256,rsa2048", "pkcs-1.5", keys)
	s.NoError(info.Verify(s.regions, sig))

	info.RequiredKeyNode, _ = keys.Lookup("/signature/key-dev")
	s.ErrorIs(info.Verify(s.regions, sig), imagesig.ErrVerify)
	info.RequiredKeyNode, _ = keys.Lookup("/signature/key-prod")
	s.NoError(info.Verify(s.regions, sig))
}

func (s *RSASuite) TestBadSignature() {
	info := s.signInfo("sha256,rsa2048", "", s.keys("sha256,rsa2048", s.priv))

	s.ErrorIs(info.Verify(s.regions, make([]byte, 255)), imagesig.ErrVerify)

	tooLarge := s.priv.N.FillBytes(make([]byte, 256))
	s.ErrorIs(info.Verify(s.regions, tooLarge), imagesig.ErrVerify)

	s.ErrorIs(info.Verify(s.regions, make([]byte, 256)), ErrPadding)
}

func (s *RSASuite) TestKeyTreeRoundTrip() {
	sig, err := stdrsa.SignPKCS1v15(rand.Reader, s.priv, crypto.SHA256, s.digest(crypto.SHA256))
	s.Require().NoError(err)

	blob, err := s.keys("sha256,rsa2048", s.priv).Bytes()
	s.Require().NoError(err)
	keys, err := fdt.Load(blob)
	s.Require().NoError(err)

	s.NoError(s.signInfo("sha256,rsa2048", "", keys).Verify(s.regions, sig))
}

func (s *RSASuite) TestAddVerifyData() {
	keys := fdt.New()
	key, err := RSA2048.AddVerifyData(keys, "sha256,rsa2048", "dev", &s.priv.PublicKey, "image")
	s.Require().NoError(err)
	s.Equal("key-dev", key.Name)

	pub, err := PublicKeyFromNode(key)
	s.Require().NoError(err)
	s.True(pub.Equal(&s.priv.PublicKey))

	n0Inv, err := fdt.PropU32(key, "rsa,n0-inverse")
	s.Require().NoError(err)
	low := uint32(new(big.Int).And(s.priv.N, big.NewInt(0xffffffff)).Uint64())
	s.Equal(uint32(0xffffffff), low*n0Inv)

	rSquared, ok := fdt.Prop(key, "rsa,r-squared")
	s.Require().True(ok)
	r := new(big.Int).Lsh(big.NewInt(1), 2048)
	s.Equal(new(big.Int).Mod(new(big.Int).Mul(r, r), s.priv.N).FillBytes(make([]byte, 256)), rSquared)

	_, err = RSA3072.AddVerifyData(keys, "sha256,rsa3072", "dev", &s.priv.PublicKey, "")
	s.ErrorIs(err, ErrBadKey)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	s.Require().NoError(err)
	_, err = RSA2048.AddVerifyData(keys, "sha256,rsa2048", "ec", &ecKey.PublicKey, "")
	s.ErrorIs(err, ErrBadKey)
}

func (s *RSASuite) TestPublicKeyFromNode() {
	keys := fdt.New()
	key, err := RSA2048.AddVerifyData(keys, "sha256,rsa2048", "dev", &s.priv.PublicKey, "")
	s.Require().NoError(err)

	fdt.RemoveProp(key, "rsa,exponent")
	pub, err := PublicKeyFromNode(key)
	s.Require().NoError(err)
	s.Equal(defaultExponent, pub.E)

	fdt.SetProp(key, "rsa,exponent", []byte{1, 0, 1})
	_, err = PublicKeyFromNode(key)
	s.ErrorIs(err, ErrBadKey)
	fdt.RemoveProp(key, "rsa,exponent")

	fdt.SetPropU32(key, "rsa,num-bits", 1024)
	_, err = PublicKeyFromNode(key)
	s.ErrorIs(err, ErrBadKey)

	fdt.RemoveProp(key, "rsa,num-bits")
	_, err = PublicKeyFromNode(key)
	s.ErrorIs(err, ErrBadKey)
}

func TestAlgorithms(t *testing.T) {
	for _, tt := range []struct {
		algo   imagesig.CryptoAlgorithm
		name   string
		keyLen int
	}{
		{RSA2048, "rsa2048", 256},
		{RSA3072, "rsa3072", 384},
		{RSA4096, "rsa4096", 512},
	} {
		require.Equal(t, tt.name, tt.algo.Name())
		require.Equal(t, tt.keyLen, tt.algo.KeyLen())
	}

	r := imagesig.NewRegistry(Algorithms(), Paddings())
	require.Same(t, RSA4096, r.GetCryptoAlgo("sha512,rsa4096"))
	require.Equal(t, PSS, r.GetPaddingAlgo("pss"))
}
