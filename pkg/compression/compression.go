// Copyright 2018 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compression implements decompression of image payloads.
//
// The set of formats is the one of U-Boot images: none, gzip, bzip2, lzma,
// lzo, lz4 and zstd.
package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnknownType means the compression name is not known.
	ErrUnknownType = errors.New("unknown compression type")

	// ErrUnsupported means the compression is known, but not
	// implemented in this direction.
	ErrUnsupported = errors.New("unsupported compression")

	// ErrTooLarge means the decompressed data exceeds the size limit.
	ErrTooLarge = errors.New("decompressed data too large")
)

// Compressor defines a single compression scheme (such as LZMA).
type Compressor interface {
	// Name is the name of the compression type.
	Name() string

	// Decode and Encode obey "x == Decode(Encode(x))".
	Decode(encodedData []byte) ([]byte, error)
	Encode(decodedData []byte) ([]byte, error)
}

// streamDecoder is implemented by compressors which can decode from a
// stream, so the output can be limited while it is produced.
type streamDecoder interface {
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// decodeAll reads at most limit bytes of decoded data. A limit of zero
// or less reads everything.
func decodeAll(d streamDecoder, encodedData []byte, limit int64) ([]byte, error) {
	rc, err := d.NewReader(bytes.NewReader(encodedData))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var r io.Reader = rc
	if limit > 0 {
		r = io.LimitReader(rc, limit)
	}
	return io.ReadAll(r)
}

// Type is an image compression type.
type Type int

const (
	TypeNone Type = iota
	TypeGzip
	TypeBzip2
	TypeLZMA
	TypeLZO
	TypeLZ4
	TypeZstd
)

var typeNames = map[Type]string{
	TypeNone:  "none",
	TypeGzip:  "gzip",
	TypeBzip2: "bzip2",
	TypeLZMA:  "lzma",
	TypeLZO:   "lzo",
	TypeLZ4:   "lz4",
	TypeZstd:  "zstd",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown_compression_%d", int(t))
}

// TypeByName returns the type named "name", as used in image
// descriptions.
func TypeByName(name string) (Type, error) {
	for t, typeName := range typeNames {
		if typeName == name {
			return t, nil
		}
	}
	return TypeNone, fmt.Errorf("'%s': %w", name, ErrUnknownType)
}

var magics = []struct {
	t     Type
	magic []byte
}{
	{TypeGzip, []byte{0x1f, 0x8b}},
	{TypeBzip2, []byte("BZh")},
	{TypeLZMA, []byte{0x5d, 0x00, 0x00}},
	{TypeLZO, []byte{0x89, 'L', 'Z', 'O'}},
	{TypeLZ4, []byte{0x04, 0x22, 0x4d, 0x18}},
	{TypeZstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
}

// Detect guesses the compression type of "data" from its magic. Data
// without a known magic is TypeNone.
func Detect(data []byte) Type {
	for _, m := range magics {
		if bytes.HasPrefix(data, m.magic) {
			return m.t
		}
	}
	return TypeNone
}

// CompressorFor returns the Compressor of type "t". TypeNone and TypeLZO
// have none.
func CompressorFor(t Type) (Compressor, error) {
	switch t {
	case TypeGzip:
		return &Gzip{}, nil
	case TypeBzip2:
		return &Bzip2{}, nil
	case TypeLZMA:
		return &LZMA{}, nil
	case TypeLZ4:
		return &LZ4{}, nil
	case TypeZstd:
		return &Zstd{}, nil
	case TypeNone, TypeLZO:
		return nil, fmt.Errorf("%s: %w", t, ErrUnsupported)
	}
	return nil, fmt.Errorf("%s: %w", t, ErrUnknownType)
}

// Decompress decodes "data" compressed with "t". If maxSize is positive,
// results longer than maxSize bytes fail with ErrTooLarge, and decoding
// stops one byte past the limit. TypeNone returns a copy of the data.
func Decompress(t Type, data []byte, maxSize int) ([]byte, error) {
	if t == TypeNone {
		if maxSize > 0 && len(data) > maxSize {
			return nil, tooLarge(t.String(), maxSize)
		}
		return append([]byte(nil), data...), nil
	}
	c, err := CompressorFor(t)
	if err != nil {
		return nil, err
	}
	return decompress(c, data, maxSize)
}

func decompress(c Compressor, data []byte, maxSize int) ([]byte, error) {
	var (
		decoded []byte
		err     error
	)
	if d, ok := c.(streamDecoder); ok && maxSize > 0 {
		decoded, err = decodeAll(d, data, int64(maxSize)+1)
	} else {
		decoded, err = c.Decode(data)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to decompress %s data: %w", c.Name(), err)
	}
	if maxSize > 0 && len(decoded) > maxSize {
		return nil, tooLarge(c.Name(), maxSize)
	}
	return decoded, nil
}

func tooLarge(name string, maxSize int) error {
	return fmt.Errorf("%s: more than %d bytes: %w", name, maxSize, ErrTooLarge)
}
