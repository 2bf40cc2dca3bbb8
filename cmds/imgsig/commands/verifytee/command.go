// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verifytee

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/linuxboot/imagesig/cmds/imgsig/commands"
	"github.com/linuxboot/imagesig/pkg/compression"
	"github.com/linuxboot/imagesig/pkg/optee"
)

var _ commands.Command = (*Command)(nil)

// maxDecodedSize limits decompressed TEE images.
const maxDecodedSize = 64 << 20

type Command struct {
	FilePath    string           `short:"f" long:"file" description:"path to the OP-TEE image (tee.bin)" required:"true"`
	LoadAddr    commands.Address `short:"l" long:"load-addr" description:"load address of the boot image" required:"true"`
	ImageAddr   commands.Address `long:"image-addr" description:"address the image is read from (diagnostics only)"`
	Compression string           `short:"c" long:"comp" description:"compression of the image: none, gzip, bzip2, lzma, lz4, zstd or auto" default:"none"`
	TZDRAMBase  commands.Address `long:"tzdram-base" env:"IMAGESIG_TZDRAM_BASE" description:"start of the TZDRAM window"`
	TZDRAMSize  commands.Address `long:"tzdram-size" env:"IMAGESIG_TZDRAM_SIZE" description:"size of the TZDRAM window, 0 disables the window checks"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "verifies an OP-TEE image before it is booted"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return `Checks the magic, the version and the size of the OP-TEE header, and that
the header expects to be loaded at --load-addr. With a TZDRAM window the
image must also fit into it.`
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if err := commands.NoExtraArgs(args); err != nil {
		return err
	}

	image, err := commands.ReadFile(cmd.FilePath, "OP-TEE image")
	if err != nil {
		return err
	}

	var comp compression.Type
	if cmd.Compression == "auto" {
		comp = compression.Detect(image)
	} else if comp, err = compression.TypeByName(cmd.Compression); err != nil {
		return commands.ErrArgs{Err: err}
	}
	if comp != compression.TypeNone {
		if image, err = optee.Decode(image, comp, maxDecodedSize); err != nil {
			return err
		}
	}

	cfg := optee.Config{
		TZDRAMStart: uint64(cmd.TZDRAMBase),
		TZDRAMSize:  uint64(cmd.TZDRAMSize),
	}
	if err := cfg.VerifyBootImage(image, uint64(cmd.ImageAddr), uint64(cmd.LoadAddr)); err != nil {
		return fmt.Errorf("'%s' is rejected: %w", cmd.FilePath, err)
	}

	h, err := optee.ParseHeader(image)
	if err != nil {
		return err
	}
	fmt.Fprintf(commands.Stdout, "%s: OP-TEE v%d %s image of %s, init part at 0x%x\n",
		cmd.FilePath, h.Version, h.Arch, humanize.IBytes(h.FileSize()), h.InitLoadAddr())
	return nil
}
