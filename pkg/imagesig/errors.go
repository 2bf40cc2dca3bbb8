// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagesig

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownChecksum means the checksum half of an algorithm name is
	// not compiled in.
	ErrUnknownChecksum = errors.New("unknown checksum algorithm")

	// ErrUnknownCrypto means the crypto half of an algorithm name is not
	// registered.
	ErrUnknownCrypto = errors.New("unknown crypto algorithm")

	// ErrUnknownPadding means the padding is not registered.
	ErrUnknownPadding = errors.New("unknown padding algorithm")

	// ErrNoKey means there is no key to verify with.
	ErrNoKey = errors.New("no verification key")

	// ErrVerify means the signature does not match.
	ErrVerify = errors.New("signature verification failed")
)

// ErrKey is returned when a key node cannot be used.
type ErrKey struct {
	Node string
	Err  error
}

func (err *ErrKey) Error() string {
	return fmt.Sprintf("key '%s': %v", err.Node, err.Err)
}

func (err *ErrKey) Unwrap() error {
	return err.Err
}
