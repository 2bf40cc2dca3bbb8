// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package copyoptee

import (
	"fmt"

	"github.com/linuxboot/imagesig/cmds/imgsig/commands"
	"github.com/linuxboot/imagesig/pkg/optee"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	ControlPath string `long:"control" description:"path to the control device tree blob" required:"true"`
	TargetPath  string `long:"target" description:"path to the device tree blob to be booted" required:"true"`
	OutputPath  string `short:"o" long:"output" description:"where to write the result (default: overwrite --target)"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "copies the OP-TEE nodes of a control device tree to another device tree"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return `Copies /firmware/optee and the /reserved-memory/optee* carveouts. Nothing
is changed if the target already has /firmware/optee.`
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if err := commands.NoExtraArgs(args); err != nil {
		return err
	}

	control, err := commands.ReadTree(cmd.ControlPath, "control")
	if err != nil {
		return err
	}
	target, err := commands.ReadTree(cmd.TargetPath, "target")
	if err != nil {
		return err
	}
	if err := optee.CopyFDTNodes(control, target); err != nil {
		return fmt.Errorf("unable to copy the OP-TEE nodes: %w", err)
	}

	outputPath := cmd.OutputPath
	if outputPath == "" {
		outputPath = cmd.TargetPath
	}
	return commands.WriteTree(target, outputPath)
}
