// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Gzip implements Compressor for gzip streams.
type Gzip struct{}

// Name returns the type of compression employed.
func (c *Gzip) Name() string {
	return TypeGzip.String()
}

// Decode decodes a byte slice of gzip data.
func (c *Gzip) Decode(encodedData []byte) ([]byte, error) {
	return decodeAll(c, encodedData, 0)
}

// NewReader returns a reader of the data decoded from r.
func (c *Gzip) NewReader(r io.Reader) (io.ReadCloser, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return gr, nil
}

// Encode encodes a byte slice with gzip.
func (c *Gzip) Encode(decodedData []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(decodedData); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
