// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hash

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument means the call arguments are unusable, e.g. no
	// regions were passed to Calculate.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownAlgorithm means there is no progressive hash algorithm with
	// the requested name.
	ErrUnknownAlgorithm = errors.New("hash algorithm is not supported")

	// ErrShortBuffer means the output buffer cannot hold the digest.
	ErrShortBuffer = errors.New("output buffer is shorter than the digest")

	// ErrContextState means a Context method was called in a state which
	// does not allow it.
	ErrContextState = errors.New("hash context is in a wrong state")
)

// Stage is a step of a hash calculation.
type Stage int

// Stages of a hash calculation.
const (
	StageLookup = Stage(iota)
	StageInit
	StageUpdate
	StageUpdateLast
	StageFinish
)

func (s Stage) String() string {
	switch s {
	case StageLookup:
		return "lookup"
	case StageInit:
		return "init"
	case StageUpdate:
		return "update"
	case StageUpdateLast:
		return "update-last"
	case StageFinish:
		return "finish"
	}
	return fmt.Sprintf("Stage?<%d>", int(s))
}

// ErrStage wraps an error returned by a particular stage of a hash
// calculation.
type ErrStage struct {
	Algo   string
	Stage  Stage
	Region int
	Err    error
}

func (err *ErrStage) Error() string {
	if err.Stage == StageUpdate || err.Stage == StageUpdateLast {
		return fmt.Sprintf("%s: %s of region #%d failed: %v", err.Algo, err.Stage, err.Region, err.Err)
	}
	return fmt.Sprintf("%s: %s failed: %v", err.Algo, err.Stage, err.Err)
}

func (err *ErrStage) Unwrap() error {
	return err.Err
}
