// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagesig

import (
	"crypto/sha256"
	encoding_asn1 "encoding/asn1"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/linuxboot/imagesig/pkg/hash"
)

func TestGetChecksumAlgo(t *testing.T) {
	algo := GetChecksumAlgo("sha256,rsa2048")
	require.NotNil(t, algo)
	assert.Equal(t, "sha256", algo.Name)
	assert.Equal(t, 32, algo.ChecksumLen)
	assert.Equal(t, 19, algo.DERLen())

	for _, name := range []string{
		"sha256",
		"sha256rsa2048",
		"sha2,rsa2048",
		"SHA256,rsa2048",
		",rsa2048",
		"",
		"md5,rsa2048",
	} {
		assert.Nil(t, GetChecksumAlgo(name), name)
	}

	assert.Same(t, algo, GetChecksumAlgo("sha256,"))
	assert.Same(t, algo, GetChecksumAlgo("sha256,anything,else"))

	for _, algo := range ChecksumAlgorithms() {
		assert.Same(t, algo, GetChecksumAlgo(algo.Name+",ecdsa256"), algo.Name)
	}
}

func TestChecksumAlgoSum(t *testing.T) {
	algo := GetChecksumAlgo("sha256,rsa2048")
	require.NotNil(t, algo)
	digest, err := algo.Sum([]hash.Region{hash.Region("a"), hash.Region("bc")})
	require.NoError(t, err)
	want := sha256.Sum256([]byte("abc"))
	assert.Equal(t, want[:], digest)

	_, err = algo.Sum(nil)
	assert.ErrorIs(t, err, hash.ErrInvalidArgument)
}

func TestDERPrefixes(t *testing.T) {
	oids := map[string]encoding_asn1.ObjectIdentifier{
		"sha1":   {1, 3, 14, 3, 2, 26},
		"sha256": {2, 16, 840, 1, 101, 3, 4, 2, 1},
		"sha384": {2, 16, 840, 1, 101, 3, 4, 2, 2},
		"sha512": {2, 16, 840, 1, 101, 3, 4, 2, 3},
		"sm3":    {1, 2, 156, 10197, 1, 401},
	}

	for _, algo := range ChecksumAlgorithms() {
		t.Run(algo.Name, func(t *testing.T) {
			wantOID, ok := oids[algo.Name]
			require.True(t, ok)

			digestInfo := append(append([]byte{}, algo.DERPrefix...), make([]byte, algo.ChecksumLen)...)
			input := cryptobyte.String(digestInfo)

			var (
				seq, algID, digest cryptobyte.String
				oid                encoding_asn1.ObjectIdentifier
			)
			require.True(t, input.ReadASN1(&seq, asn1.SEQUENCE))
			require.True(t, input.Empty())
			require.True(t, seq.ReadASN1(&algID, asn1.SEQUENCE))
			require.True(t, algID.ReadASN1ObjectIdentifier(&oid))
			assert.True(t, oid.Equal(wantOID), oid.String())
			require.True(t, algID.SkipASN1(asn1.NULL))
			require.True(t, algID.Empty())
			require.True(t, seq.ReadASN1(&digest, asn1.OCTET_STRING))
			require.True(t, seq.Empty())
			assert.Len(t, digest, algo.ChecksumLen)

			hashAlgo, err := hash.LookupAlgo(algo.Name)
			require.NoError(t, err)
			assert.Equal(t, hashAlgo.DigestSize, algo.ChecksumLen)
		})
	}
}
