// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rsa

import (
	stdbytes "bytes"
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"github.com/linuxboot/imagesig/pkg/bytes"
	"github.com/linuxboot/imagesig/pkg/hash"
	"github.com/linuxboot/imagesig/pkg/imagesig"
)

const (
	pkcs15MinPadding = 8
	pssTrailer       = 0xbc
)

var (
	PKCS15 imagesig.PaddingAlgorithm = pkcs15{}
	PSS    imagesig.PaddingAlgorithm = pss{}
)

// Paddings returns the RSA padding algorithms.
func Paddings() []imagesig.PaddingAlgorithm {
	return []imagesig.PaddingAlgorithm{PKCS15, PSS}
}

// pkcs15 is EMSA-PKCS1-v1_5: 0x00 0x01 0xff... 0x00 DigestInfo.
type pkcs15 struct{}

func (pkcs15) Name() string {
	return "pkcs-1.5"
}

func (pkcs15) Verify(info *imagesig.SignInfo, msg, digest []byte) error {
	der := info.Checksum.DERPrefix
	padLen := len(msg) - 3 - len(der) - len(digest)
	if padLen < pkcs15MinPadding {
		return fmt.Errorf("%w: %d byte message is too short", ErrPadding, len(msg))
	}
	if msg[0] != 0x00 || msg[1] != 0x01 {
		return fmt.Errorf("%w: bad header %02x%02x", ErrPadding, msg[0], msg[1])
	}
	ps := msg[2 : 2+padLen]
	for idx, b := range ps {
		if b != 0xff {
			return fmt.Errorf("%w: byte 0x%02x at %d", ErrPadding, b, 2+idx)
		}
	}
	rest := msg[2+padLen:]
	if rest[0] != 0x00 {
		return fmt.Errorf("%w: no separator", ErrPadding)
	}
	rest = rest[1:]
	if subtle.ConstantTimeCompare(rest[:len(der)], der) != 1 {
		return fmt.Errorf("%w: DigestInfo is not %s", ErrPadding, info.Checksum.Name)
	}
	if subtle.ConstantTimeCompare(rest[len(der):], digest) != 1 {
		return ErrDigestMismatch
	}
	return nil
}

// pss is EMSA-PSS (RFC 8017, 9.1.2) with MGF1 over the checksum hash and
// any salt length. The modulus is assumed to be a multiple of 8 bits, so
// only the top bit of the message is unused.
type pss struct{}

func (pss) Name() string {
	return "pss"
}

func (pss) Verify(info *imagesig.SignInfo, msg, digest []byte) error {
	name := info.Checksum.Name
	hLen := len(digest)
	if len(msg) < hLen+2 {
		return fmt.Errorf("%w: %d byte message is too short", ErrPadding, len(msg))
	}
	if msg[len(msg)-1] != pssTrailer {
		return fmt.Errorf("%w: trailer 0x%02x", ErrPadding, msg[len(msg)-1])
	}
	if msg[0]&0x80 != 0 {
		return fmt.Errorf("%w: top bit set", ErrPadding)
	}

	dbLen := len(msg) - hLen - 1
	h := msg[dbLen : len(msg)-1]
	db, err := mgf1(name, h, dbLen)
	if err != nil {
		return err
	}
	for idx := range db {
		db[idx] ^= msg[idx]
	}
	db[0] &= 0x7f

	sep := stdbytes.IndexByte(db, 0x01)
	if sep < 0 || !bytes.IsZeroFilled(db[:sep]) {
		return fmt.Errorf("%w: no salt separator", ErrPadding)
	}
	salt := db[sep+1:]

	var zeros [8]byte
	want, err := hash.Calculate(name, []hash.Region{zeros[:], digest, salt})
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(h, want) != 1 {
		return ErrDigestMismatch
	}
	return nil
}

// mgf1 is the MGF1 mask generation function with the progressive hash
// "name".
func mgf1(name string, seed []byte, length int) ([]byte, error) {
	out := make([]byte, 0, length)
	var counter [4]byte
	for i := uint32(0); len(out) < length; i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		block, err := hash.Calculate(name, []hash.Region{seed, counter[:]})
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	return out[:length], nil
}
