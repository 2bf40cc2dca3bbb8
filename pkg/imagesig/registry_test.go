// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagesig

import (
	"bytes"
	"crypto"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/u-root/u-root/pkg/dt"

	"github.com/linuxboot/imagesig/pkg/fdt"
	"github.com/linuxboot/imagesig/pkg/hash"
)

var errMismatch = errors.New("mismatch")

// fakeCrypto accepts a signature equal to the "secret" property of a key.
type fakeCrypto struct {
	name string
}

func (c fakeCrypto) Name() string { return c.name }
func (c fakeCrypto) KeyLen() int  { return 4 }

func (c fakeCrypto) AddVerifyData(keys *fdt.Tree, algoName, keyName string, pub crypto.PublicKey, required string) (*dt.Node, error) {
	key, err := AddKeyNode(keys, algoName, keyName, required)
	if err != nil {
		return nil, err
	}
	fdt.SetProp(key, "secret", pub.([]byte))
	return key, nil
}

func (c fakeCrypto) Verify(info *SignInfo, regions []hash.Region, sig []byte) error {
	return info.ForEachKey(func(key *dt.Node) error {
		secret, _ := fdt.Prop(key, "secret")
		if !bytes.Equal(secret, sig) {
			return errMismatch
		}
		return nil
	})
}

type fakePadding string

func (p fakePadding) Name() string                                    { return string(p) }
func (p fakePadding) Verify(info *SignInfo, msg, digest []byte) error { return nil }

func fakeRegistry() *Registry {
	return NewRegistry(
		[]CryptoAlgorithm{fakeCrypto{"rsa2048"}, fakeCrypto{"ecdsa256"}, fakeCrypto{"rsa2048"}},
		[]PaddingAlgorithm{fakePadding("pkcs-1.5"), fakePadding("pss")},
	)
}

func TestGetCryptoAlgo(t *testing.T) {
	r := fakeRegistry()

	algo := r.GetCryptoAlgo("sha256,rsa2048")
	require.NotNil(t, algo)
	assert.Equal(t, "rsa2048", algo.Name())
	assert.Equal(t, "ecdsa256", r.GetCryptoAlgo("anything,ecdsa256").Name())
	assert.Equal(t, "ecdsa256", r.GetCryptoAlgo(",ecdsa256").Name())

	for _, name := range []string{
		"rsa2048",
		"sha256,rsa204",
		"sha256,rsa20488",
		"sha256,RSA2048",
		"sha256,",
		"sha256,ecdsa256,x",
		"",
	} {
		assert.Nil(t, r.GetCryptoAlgo(name), name)
	}

	var nilRegistry *Registry
	assert.Nil(t, nilRegistry.GetCryptoAlgo("sha256,rsa2048"))
	assert.Len(t, r.CryptoAlgorithms(), 3)
}

func TestGetPaddingAlgo(t *testing.T) {
	r := fakeRegistry()
	assert.Equal(t, "pss", r.GetPaddingAlgo("pss").Name())
	assert.Equal(t, "pkcs-1.5", r.GetPaddingAlgo("pkcs-1.5").Name())
	for _, name := range []string{"", "pkcs", "PSS", "pss "} {
		assert.Nil(t, r.GetPaddingAlgo(name), name)
	}
	assert.Len(t, r.PaddingAlgorithms(), 2)
}

func TestNewSignInfo(t *testing.T) {
	r := fakeRegistry()

	info, err := r.NewSignInfo("sha256,rsa2048", "", nil, "dev")
	require.NoError(t, err)
	assert.Equal(t, "sha256", info.Checksum.Name)
	assert.Equal(t, "rsa2048", info.Crypto.Name())
	assert.Equal(t, DefaultPadding, info.Padding.Name())

	_, err = r.NewSignInfo("md5,rsa2048", "pss", nil, "")
	assert.ErrorIs(t, err, ErrUnknownChecksum)

	_, err = r.NewSignInfo("sha256,dsa", "bogus", nil, "")
	assert.ErrorIs(t, err, ErrUnknownCrypto)
	assert.ErrorIs(t, err, ErrUnknownPadding)
}

func TestForEachKey(t *testing.T) {
	r := fakeRegistry()
	keys := fdt.New()
	backend := r.GetCryptoAlgo("sha256,rsa2048")
	for _, name := range []string{"first", "dev", "prod"} {
		_, err := backend.AddVerifyData(keys, "sha256,rsa2048", name, []byte(name), "")
		require.NoError(t, err)
	}
	_, err := backend.AddVerifyData(keys, "sha256,ecdsa256", "other", []byte("other"), "conf")
	require.NoError(t, err)

	info, err := r.NewSignInfo("sha256,rsa2048", "", keys, "dev")
	require.NoError(t, err)

	var tried []string
	record := func(want string) func(key *dt.Node) error {
		return func(key *dt.Node) error {
			tried = append(tried, key.Name)
			if key.Name == want {
				return nil
			}
			return errMismatch
		}
	}

	require.NoError(t, info.ForEachKey(record("key-dev")))
	assert.Equal(t, []string{"key-dev"}, tried)

	tried = nil
	require.NoError(t, info.ForEachKey(record("key-prod")))
	assert.Equal(t, []string{"key-dev", "key-first", "key-prod"}, tried)

	// wrong algo is never handed to the back-end
	tried = nil
	err = info.ForEachKey(record("key-other"))
	assert.ErrorIs(t, err, ErrVerify)
	assert.ErrorIs(t, err, errMismatch)
	assert.Equal(t, []string{"key-dev", "key-first", "key-prod"}, tried)

	require.NoError(t, info.Verify([]hash.Region{hash.Region("x")}, []byte("prod")))
	assert.ErrorIs(t, info.Verify([]hash.Region{hash.Region("x")}, []byte("other")), ErrVerify)

	info.RequiredKeyNode, _ = keys.Lookup("/signature/key-first")
	assert.ErrorIs(t, info.Verify(nil, []byte("prod")), ErrVerify)
	assert.NoError(t, info.Verify(nil, []byte("first")))
}

func TestForEachKeyNoKeys(t *testing.T) {
	info, err := fakeRegistry().NewSignInfo("sha256,rsa2048", "", nil, "")
	require.NoError(t, err)
	assert.ErrorIs(t, info.Verify(nil, nil), ErrNoKey)

	info.Keys = fdt.New()
	assert.ErrorIs(t, info.Verify(nil, nil), ErrNoKey)
}

func TestAddKeyNodeReplaces(t *testing.T) {
	keys := fdt.New()
	_, err := AddKeyNode(keys, "sha256,rsa2048", "dev", "conf")
	require.NoError(t, err)
	key, err := AddKeyNode(keys, "sha1,rsa2048", "dev", "")
	require.NoError(t, err)

	sigNode, ok := keys.Lookup(SignatureNodePath)
	require.True(t, ok)
	require.Len(t, sigNode.Children, 1)
	assert.Same(t, key, sigNode.Children[0])

	algo, err := fdt.PropString(key, "algo")
	require.NoError(t, err)
	assert.Equal(t, "sha1,rsa2048", algo)
	_, ok = fdt.Prop(key, "required")
	assert.False(t, ok)
}
