// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hash implements progressive (multi-chunk) hashing of image
// regions.
//
// Each supported algorithm provides a Context which is fed with chunks in
// order. The final chunk must be passed with UpdateLast: some back-ends only
// account the total length or decide on padding when they are told that no
// more data follows, so Update followed by Finish is not equivalent.
package hash

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash/crc32"

	"github.com/tjfoc/gmsm/sm3"
)

// Region is a borrowed byte range to be hashed. The memory is owned by the
// caller and must stay valid (and unmodified) for the duration of the call.
type Region []byte

// Context is an incremental hash state.
//
// A Context is created by Algorithm.New, fed with Update for every chunk
// except the last one, with UpdateLast for the last chunk, and finalized
// with Finish. Any other order is rejected with ErrContextState.
type Context interface {
	// Update adds a chunk which is followed by more data.
	Update(p []byte) error

	// UpdateLast adds the final chunk. It may be empty.
	UpdateLast(p []byte) error

	// Finish writes the digest to the beginning of out.
	Finish(out []byte) error
}

// Algorithm describes a progressive hash algorithm.
type Algorithm struct {
	// Name is the bare algorithm name, e.g. "sha256".
	Name string

	// DigestSize is the length of the digest in bytes.
	DigestSize int

	// ChunkSize is the piece size Block feeds the context with.
	ChunkSize int

	// New creates a fresh context.
	New func() (Context, error)
}

const (
	sm3Size = 32

	chunkSizeSHA = 64 * 1024
	chunkSizeCRC = 256 * 1024
)

var algos = []*Algorithm{
	{
		Name:       "sha1",
		DigestSize: sha1.Size,
		ChunkSize:  chunkSizeSHA,
		New:        newStdContext(sha1.New),
	},
	{
		Name:       "sha256",
		DigestSize: sha256.Size,
		ChunkSize:  chunkSizeSHA,
		New:        newStdContext(sha256.New),
	},
	{
		Name:       "sha384",
		DigestSize: sha512.Size384,
		ChunkSize:  chunkSizeSHA,
		New:        newStdContext(sha512.New384),
	},
	{
		Name:       "sha512",
		DigestSize: sha512.Size,
		ChunkSize:  chunkSizeSHA,
		New:        newStdContext(sha512.New),
	},
	{
		Name:       "sm3",
		DigestSize: sm3Size,
		ChunkSize:  chunkSizeSHA,
		New:        newStdContext(sm3.New),
	},
	{
		Name:       "crc16-ccitt",
		DigestSize: crc16Size,
		ChunkSize:  chunkSizeCRC,
		New:        newStdContext(newCRC16CCITT),
	},
	{
		Name:       "crc32",
		DigestSize: crc32.Size,
		ChunkSize:  chunkSizeCRC,
		New:        newStdContext(newCRC32),
	},
}

// LookupAlgo returns the progressive hash algorithm with the exact name
// "name". Unlike the compound names used by image signatures, "name" is a
// bare algorithm name such as "sha256".
func LookupAlgo(name string) (*Algorithm, error) {
	for _, algo := range algos {
		if algo.Name == name {
			return algo, nil
		}
	}
	return nil, &ErrStage{Algo: name, Stage: StageLookup, Err: ErrUnknownAlgorithm}
}

// Algorithms returns all supported progressive hash algorithms.
func Algorithms() []*Algorithm {
	result := make([]*Algorithm, len(algos))
	copy(result, algos)
	return result
}
