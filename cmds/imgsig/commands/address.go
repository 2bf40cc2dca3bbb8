// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"strconv"

	"github.com/jessevdk/go-flags"
)

// Address is a 64 bit flag value accepting the Go integer prefixes, so
// both "0x8e000000" and "2382364672" work.
type Address uint64

var _ flags.Unmarshaler = (*Address)(nil)

// UnmarshalFlag implements flags.Unmarshaler.
func (a *Address) UnmarshalFlag(value string) error {
	v, err := strconv.ParseUint(value, 0, 64)
	if err != nil {
		return fmt.Errorf("invalid address '%s': %w", value, err)
	}
	*a = Address(v)
	return nil
}

func (a Address) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}
