// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package algo

import (
	"fmt"

	"github.com/linuxboot/imagesig/cmds/imgsig/commands"
	"github.com/linuxboot/imagesig/pkg/imagesig/backends"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	Name    string `short:"n" long:"name" description:"signature algorithm name, e.g. sha256,rsa2048" required:"true"`
	Padding string `short:"p" long:"padding" description:"padding algorithm name (default: pkcs-1.5)"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "resolves a signature algorithm name"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return ""
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if err := commands.NoExtraArgs(args); err != nil {
		return err
	}

	info, err := backends.Registry().NewSignInfo(cmd.Name, cmd.Padding, nil, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(commands.Stdout, "checksum: %s (%d bytes, DER prefix %d bytes)\n",
		info.Checksum.Name, info.Checksum.ChecksumLen, info.Checksum.DERLen())
	fmt.Fprintf(commands.Stdout, "crypto:   %s (%d byte keys)\n", info.Crypto.Name(), info.Crypto.KeyLen())
	fmt.Fprintf(commands.Stdout, "padding:  %s\n", info.Padding.Name())
	return nil
}
