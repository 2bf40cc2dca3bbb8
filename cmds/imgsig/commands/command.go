// Copyright 2017-2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"io"
	"os"

	"github.com/jessevdk/go-flags"
)

// Command is an interface of implementations of verbs
// (like "list", "verify-tee" etc of "imgsig list"/"imgsig verify-tee")
type Command interface {
	flags.Commander

	// ShortDescription explains what this command does in one line
	ShortDescription() string

	// LongDescription explains what this verb does (without limitation in amount of lines)
	LongDescription() string
}

// Stdout is where the commands print their results.
var Stdout io.Writer = os.Stdout
