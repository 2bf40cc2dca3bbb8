// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hash

import (
	"fmt"

	"github.com/linuxboot/imagesig/cmds/imgsig/commands"
	"github.com/linuxboot/imagesig/pkg/hash"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	Algo     string   `short:"a" long:"algo" description:"hash algorithm, e.g. sha256 or crc32" required:"true"`
	FilePath string   `short:"f" long:"file" description:"path to the image" required:"true"`
	Exclude  []string `short:"x" long:"exclude" description:"OFFSET:LENGTH range not to hash (may be repeated)"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "hashes an image, optionally around excluded ranges"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "The parts of the image outside the excluded ranges are hashed in order as a single message."
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if err := commands.NoExtraArgs(args); err != nil {
		return err
	}

	data, err := commands.ReadFile(cmd.FilePath, "image")
	if err != nil {
		return err
	}
	regions, err := commands.Regions(data, cmd.Exclude)
	if err != nil {
		return err
	}
	digest, err := hash.Calculate(cmd.Algo, regions)
	if err != nil {
		return fmt.Errorf("unable to hash '%s': %w", cmd.FilePath, err)
	}
	fmt.Fprintf(commands.Stdout, "%x  %s\n", digest, cmd.FilePath)
	return nil
}
