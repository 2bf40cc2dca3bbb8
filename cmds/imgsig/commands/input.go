// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"os"

	"github.com/linuxboot/imagesig/pkg/bytes"
	"github.com/linuxboot/imagesig/pkg/fdt"
	"github.com/linuxboot/imagesig/pkg/hash"
	"github.com/linuxboot/imagesig/pkg/log"
)

// NoExtraArgs fails if there are positional arguments.
func NoExtraArgs(args []string) error {
	if len(args) != 0 {
		return ErrArgs{Err: fmt.Errorf("there are extra arguments: %v", args)}
	}
	return nil
}

// ReadFile reads a whole input file.
func ReadFile(path, what string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read the %s file '%s': %w", what, path, err)
	}
	return data, nil
}

// ReadTree reads a device tree blob file.
func ReadTree(path, what string) (*fdt.Tree, error) {
	blob, err := ReadFile(path, what)
	if err != nil {
		return nil, err
	}
	tree, err := fdt.Load(blob)
	if err != nil {
		return nil, fmt.Errorf("unable to parse the %s device tree '%s': %w", what, path, err)
	}
	return tree, nil
}

// WriteTree stores a device tree blob file.
func WriteTree(tree *fdt.Tree, path string) error {
	blob, err := tree.Bytes()
	if err != nil {
		return fmt.Errorf("unable to serialize the device tree: %w", err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("unable to write the device tree '%s': %w", path, err)
	}
	return nil
}

// Regions returns the parts of "data" outside the "OFFSET:LENGTH"
// exclusions, in order.
func Regions(data []byte, excludes []string) ([]hash.Region, error) {
	var excluded bytes.Ranges
	for _, s := range excludes {
		r, err := bytes.ParseRange(s)
		if err != nil {
			return nil, ErrArgs{Err: err}
		}
		excluded = append(excluded, r)
	}

	covered := bytes.Range{Length: uint64(len(data))}.Exclude(excluded...)
	if len(covered) == 0 {
		return nil, ErrArgs{Err: fmt.Errorf("the exclusions cover the whole file")}
	}
	log.Debugf("%d of %d bytes are covered by %d regions", covered.TotalLength(), len(data), len(covered))
	slices, err := covered.Slices(data)
	if err != nil {
		return nil, err
	}
	regions := make([]hash.Region, 0, len(slices))
	for _, s := range slices {
		regions = append(regions, s)
	}
	return regions, nil
}
