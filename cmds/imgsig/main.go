// Copyright 2017-2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// imgsig checks boot images: signatures over image regions, OP-TEE image
// headers, and the OP-TEE nodes of the device tree passed to the OS.
//
// Synopsis:
//
//	imgsig list
//	imgsig algo -n NAME [-p PADDING]
//	imgsig hash -a ALGO -f FILE [-x OFFSET:LENGTH ...]
//	imgsig verify-tee -f FILE -l LOAD_ADDR [--image-addr ADDR] [-c COMP] [--tzdram-base BASE --tzdram-size SIZE]
//	imgsig copy-optee --control DTB --target DTB [-o OUTPUT]
//	imgsig add-key -k DTB -a ALGO --key PEM -n NAME [-r conf|image] [-o OUTPUT]
//	imgsig verify-sig -f FILE -a ALGO -s SIG -k DTB [-n NAME] [--required-key NAME] [-p PADDING] [-x OFFSET:LENGTH ...]
//
// An example:
//
//	imgsig add-key -k control.dtb -a sha256,rsa2048 --key dev.pub.pem -n dev -r conf
//	imgsig verify-sig -f kernel.itb -x 0x40:0x100 -a sha256,rsa2048 -s kernel.sig -k control.dtb -n dev
//	IMAGESIG_TZDRAM_BASE=0x8e000000 IMAGESIG_TZDRAM_SIZE=0x2000000 imgsig verify-tee -f tee.bin -l 0x8dffffe4
//	imgsig copy-optee --control u-boot.dtb --target linux.dtb
//
// Description:
//
//	list:       Print the supported algorithms
//	algo:       Resolve a signature algorithm name
//	hash:       Hash the regions of a file
//	verify-tee: Verify an OP-TEE image header against its load address
//	copy-optee: Copy the OP-TEE device tree nodes to another device tree
//	add-key:    Store a public key in a control device tree
//	verify-sig: Verify an image signature with the keys of a control device tree
package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/linuxboot/imagesig/cmds/imgsig/commands"
	"github.com/linuxboot/imagesig/cmds/imgsig/commands/addkey"
	"github.com/linuxboot/imagesig/cmds/imgsig/commands/algo"
	"github.com/linuxboot/imagesig/cmds/imgsig/commands/copyoptee"
	"github.com/linuxboot/imagesig/cmds/imgsig/commands/hash"
	"github.com/linuxboot/imagesig/cmds/imgsig/commands/list"
	"github.com/linuxboot/imagesig/cmds/imgsig/commands/verifysig"
	"github.com/linuxboot/imagesig/cmds/imgsig/commands/verifytee"
	"github.com/linuxboot/imagesig/pkg/log"
)

var (
	knownCommands = map[string]commands.Command{
		"list":       &list.Command{},
		"algo":       &algo.Command{},
		"hash":       &hash.Command{},
		"verify-tee": &verifytee.Command{},
		"copy-optee": &copyoptee.Command{},
		"add-key":    &addkey.Command{},
		"verify-sig": &verifysig.Command{},
	}
)

type globalOptions struct {
	Debug bool `short:"d" long:"debug" description:"print debug messages"`
}

func main() {
	var opts globalOptions
	flagsParser := flags.NewParser(&opts, flags.Default)
	for commandName, command := range knownCommands {
		_, err := flagsParser.AddCommand(commandName, command.ShortDescription(), command.LongDescription(), command)
		if err != nil {
			panic(err)
		}
	}
	flagsParser.CommandHandler = func(command flags.Commander, args []string) error {
		log.SetDebug(opts.Debug)
		if command == nil {
			return nil
		}
		return command.Execute(args)
	}

	// parse arguments and execute the appropriate command
	if _, err := flagsParser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf("%v", err)
	}
}
