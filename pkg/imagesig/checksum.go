// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagesig

import (
	"fmt"
	"strings"

	"github.com/linuxboot/imagesig/pkg/hash"
)

// AlgoNameDelimiter separates the checksum and crypto halves of a
// signature algorithm name, e.g. "sha256,rsa2048".
const AlgoNameDelimiter = ','

// ChecksumAlgorithm describes a digest algorithm usable in image
// signatures.
type ChecksumAlgorithm struct {
	// Name is the bare name, which is also the progressive hash name.
	Name string

	// ChecksumLen is the digest length in bytes.
	ChecksumLen int

	// DERPrefix is the DER encoded DigestInfo header which precedes the
	// digest in PKCS#1 v1.5 signatures.
	DERPrefix []byte

	// Calculate hashes the regions with the progressive hash algorithm
	// "name" into "out".
	Calculate func(name string, regions []hash.Region, out []byte) error
}

// DERLen returns the length of DERPrefix.
func (c *ChecksumAlgorithm) DERLen() int {
	return len(c.DERPrefix)
}

// Sum returns the digest of the regions.
func (c *ChecksumAlgorithm) Sum(regions []hash.Region) ([]byte, error) {
	out := make([]byte, c.ChecksumLen)
	if err := c.Calculate(c.Name, regions, out); err != nil {
		return nil, fmt.Errorf("unable to calculate %s checksum: %w", c.Name, err)
	}
	return out, nil
}

func (c *ChecksumAlgorithm) String() string {
	return c.Name
}

// checksumAlgos is the compiled-in table. Rows are removed at build time
// by the imagesig_no* build tags, see checksum_*.go.
var checksumAlgos = compactChecksumAlgos(
	checksumSHA1,
	checksumSHA256,
	checksumSHA384,
	checksumSHA512,
	checksumSM3,
)

func compactChecksumAlgos(in ...*ChecksumAlgorithm) []*ChecksumAlgorithm {
	var result []*ChecksumAlgorithm
	for _, algo := range in {
		if algo != nil {
			result = append(result, algo)
		}
	}
	return result
}

// GetChecksumAlgo returns the checksum algorithm of a compound name like
// "sha256,rsa2048", or nil if there is none.
//
// An entry matches only if its name is a leading token of fullName, that
// is, it is immediately followed by the delimiter. Thus a bare "sha256"
// does not match anything.
func GetChecksumAlgo(fullName string) *ChecksumAlgorithm {
	for _, algo := range checksumAlgos {
		if strings.HasPrefix(fullName, algo.Name) &&
			len(fullName) > len(algo.Name) &&
			fullName[len(algo.Name)] == AlgoNameDelimiter {
			return algo
		}
	}
	return nil
}

// ChecksumAlgorithms returns the compiled-in checksum algorithms.
func ChecksumAlgorithms() []*ChecksumAlgorithm {
	result := make([]*ChecksumAlgorithm, len(checksumAlgos))
	copy(result, checksumAlgos)
	return result
}
