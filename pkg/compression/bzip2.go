// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"compress/bzip2"
	"fmt"
	"io"
)

// Bzip2 implements Compressor for bzip2 streams. Only decoding is
// supported.
type Bzip2 struct{}

// Name returns the type of compression employed.
func (c *Bzip2) Name() string {
	return TypeBzip2.String()
}

// Decode decodes a byte slice of bzip2 data.
func (c *Bzip2) Decode(encodedData []byte) ([]byte, error) {
	return decodeAll(c, encodedData, 0)
}

// NewReader returns a reader of the data decoded from r.
func (c *Bzip2) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(bzip2.NewReader(r)), nil
}

// Encode is not supported.
func (c *Bzip2) Encode(decodedData []byte) ([]byte, error) {
	return nil, fmt.Errorf("bzip2 encoding: %w", ErrUnsupported)
}
