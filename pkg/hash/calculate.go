// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hash

import (
	"fmt"

	"github.com/linuxboot/imagesig/pkg/log"
)

// Calculate hashes "regions" in order as a single message with the
// progressive algorithm "name" and returns the digest.
func Calculate(name string, regions []Region) ([]byte, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("no regions to hash: %w", ErrInvalidArgument)
	}
	algo, err := LookupAlgo(name)
	if err != nil {
		return nil, err
	}
	out := make([]byte, algo.DigestSize)
	if err := calculate(algo, regions, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CalculateInto is the same as Calculate, but writes the digest to the
// beginning of "out". "out" must be at least the digest size of the
// algorithm. On error the content of "out" is unspecified.
func CalculateInto(name string, regions []Region, out []byte) error {
	if len(regions) == 0 {
		return fmt.Errorf("no regions to hash: %w", ErrInvalidArgument)
	}
	algo, err := LookupAlgo(name)
	if err != nil {
		return err
	}
	return calculate(algo, regions, out)
}

func calculate(algo *Algorithm, regions []Region, out []byte) error {
	ctx, err := algo.New()
	if err != nil {
		return &ErrStage{Algo: algo.Name, Stage: StageInit, Err: err}
	}

	last := len(regions) - 1
	for idx, region := range regions[:last] {
		if err := ctx.Update(region); err != nil {
			return &ErrStage{Algo: algo.Name, Stage: StageUpdate, Region: idx, Err: err}
		}
	}
	if err := ctx.UpdateLast(regions[last]); err != nil {
		return &ErrStage{Algo: algo.Name, Stage: StageUpdateLast, Region: last, Err: err}
	}
	if err := ctx.Finish(out); err != nil {
		return &ErrStage{Algo: algo.Name, Stage: StageFinish, Err: err}
	}

	log.Debugf("hash %s over %d region(s): %X", algo.Name, len(regions), out[:algo.DigestSize])
	return nil
}

// Block hashes a single buffer with the progressive algorithm "name",
// feeding it in pieces of the algorithm's ChunkSize, and writes the digest
// to "out".
func Block(name string, data []byte, out []byte) error {
	algo, err := LookupAlgo(name)
	if err != nil {
		return err
	}

	chunkSize := algo.ChunkSize
	if chunkSize <= 0 {
		return calculate(algo, []Region{data}, out)
	}
	regions := make([]Region, 0, len(data)/chunkSize+1)
	for len(data) > chunkSize {
		regions = append(regions, data[:chunkSize])
		data = data[chunkSize:]
	}
	regions = append(regions, data)
	return calculate(algo, regions, out)
}
