// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verifysig

import (
	"fmt"

	"github.com/linuxboot/imagesig/cmds/imgsig/commands"
	"github.com/linuxboot/imagesig/pkg/imagesig"
	"github.com/linuxboot/imagesig/pkg/imagesig/backends"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	FilePath    string   `short:"f" long:"file" description:"path to the signed image" required:"true"`
	Algo        string   `short:"a" long:"algo" description:"signature algorithm, e.g. sha256,rsa2048" required:"true"`
	SigPath     string   `short:"s" long:"sig" description:"path to the raw signature" required:"true"`
	KeysPath    string   `short:"k" long:"keys" description:"path to the device tree blob with the /signature keys" required:"true"`
	KeyName     string   `short:"n" long:"key-name" description:"key name hint, key-<NAME> is tried first"`
	RequiredKey string   `long:"required-key" description:"only verify with key-<NAME>"`
	Padding     string   `short:"p" long:"padding" description:"padding algorithm (default: pkcs-1.5)"`
	Exclude     []string `short:"x" long:"exclude" description:"OFFSET:LENGTH range not covered by the signature (may be repeated)"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "verifies the signature of an image"
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

	keys, err := commands.ReadTree(cmd.KeysPath, "keys")
	if err != nil {
		return err
	}
	info, err := backends.Registry().NewSignInfo(cmd.Algo, cmd.Padding, keys, cmd.KeyName)
	if err != nil {
		return commands.ErrArgs{Err: err}
	}
	if cmd.RequiredKey != "" {
		path := imagesig.SignatureNodePath + "/" + imagesig.KeyNodePrefix + cmd.RequiredKey
		node, ok := keys.Lookup(path)
		if !ok {
			return fmt.Errorf("no required key '%s': %w", path, imagesig.ErrNoKey)
		}
		info.RequiredKeyNode = node
	}

	data, err := commands.ReadFile(cmd.FilePath, "image")
	if err != nil {
		return err
	}
	sig, err := commands.ReadFile(cmd.SigPath, "signature")
	if err != nil {
		return err
	}
	regions, err := commands.Regions(data, cmd.Exclude)
	if err != nil {
		return err
	}

	if err := info.Verify(regions, sig); err != nil {
		return fmt.Errorf("'%s': %w", cmd.FilePath, err)
	}
	fmt.Fprintf(commands.Stdout, "%s: %s signature OK\n", cmd.FilePath, cmd.Algo)
	return nil
}
