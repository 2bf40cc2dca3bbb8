// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hash

import (
	"fmt"
	stdhash "hash"
	"hash/crc32"
)

type contextState int

const (
	stateOpen = contextState(iota)
	stateLast
	stateFinished
)

func (s contextState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateLast:
		return "last-chunk-received"
	case stateFinished:
		return "finished"
	}
	return fmt.Sprintf("state?<%d>", int(s))
}

// stdContext drives a standard library hash.Hash through the progressive
// protocol.
type stdContext struct {
	h      stdhash.Hash
	state  contextState
	length uint64
}

var _ Context = (*stdContext)(nil)

func newStdContext(newHash func() stdhash.Hash) func() (Context, error) {
	return func() (Context, error) {
		return &stdContext{h: newHash()}, nil
	}
}

func (ctx *stdContext) write(p []byte) error {
	n, err := ctx.h.Write(p)
	ctx.length += uint64(n)
	if err != nil {
		return err
	}
	if n != len(p) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(p))
	}
	return nil
}

// Update implements Context.
func (ctx *stdContext) Update(p []byte) error {
	if ctx.state != stateOpen {
		return fmt.Errorf("update in state %s: %w", ctx.state, ErrContextState)
	}
	return ctx.write(p)
}

// UpdateLast implements Context.
func (ctx *stdContext) UpdateLast(p []byte) error {
	if ctx.state != stateOpen {
		return fmt.Errorf("update-last in state %s: %w", ctx.state, ErrContextState)
	}
	if err := ctx.write(p); err != nil {
		return err
	}
	ctx.state = stateLast
	return nil
}

// Finish implements Context.
func (ctx *stdContext) Finish(out []byte) error {
	if ctx.state != stateLast {
		return fmt.Errorf("finish in state %s: %w", ctx.state, ErrContextState)
	}
	size := ctx.h.Size()
	if len(out) < size {
		return fmt.Errorf("need %d bytes, have %d: %w", size, len(out), ErrShortBuffer)
	}
	copy(out, ctx.h.Sum(nil))
	ctx.state = stateFinished
	return nil
}

func newCRC32() stdhash.Hash {
	return crc32.NewIEEE()
}
