// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// teehdr prints the header of an OP-TEE image (tee.bin).
//
// Synopsis:
//
//	teehdr [-d] [-j] [--set-load-addr ADDR] FILE
//
// With --set-load-addr the init load address in the header is rewritten
// in place before it is printed.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/camelcase"
	flag "github.com/spf13/pflag"

	"github.com/linuxboot/imagesig/pkg/log"
	"github.com/linuxboot/imagesig/pkg/optee"
)

var (
	debug       = flag.BoolP("debug", "d", false, "enable debug prints")
	asJSON      = flag.BoolP("json", "j", false, "print the header as JSON")
	setLoadAddr = flag.String("set-load-addr", "", "rewrite the init load address of the image")
)

var errUsage = errors.New("usage: teehdr [-d] [-j] [--set-load-addr ADDR] FILE")

func main() {
	flag.Parse()
	log.SetDebug(*debug)

	if err := run(os.Stdout, *asJSON, *setLoadAddr, flag.Args()); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(stdout io.Writer, asJSON bool, setLoadAddr string, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	path := args[0]

	image, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	h, err := optee.ParseHeader(image)
	if err != nil {
		return fmt.Errorf("'%s': %w", path, err)
	}

	if setLoadAddr != "" {
		addr, err := strconv.ParseUint(setLoadAddr, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid load address '%s': %w", setLoadAddr, err)
		}
		log.Debugf("init load address 0x%x -> 0x%x", h.InitLoadAddr(), addr)
		h.SetInitLoadAddr(addr)
		if err := h.Update(image); err != nil {
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, image, info.Mode().Perm()); err != nil {
			return err
		}
	}

	if asJSON {
		j, err := json.MarshalIndent(h, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\n", j)
		return nil
	}
	printHeader(stdout, h, uint64(len(image)))
	return nil
}

func printHeader(w io.Writer, h *optee.Header, imageLen uint64) {
	v := reflect.ValueOf(*h)
	for i := 0; i < v.NumField(); i++ {
		name := strings.Join(camelcase.Split(v.Type().Field(i).Name), " ")
		field := v.Field(i)
		var value string
		switch {
		case field.Type() == reflect.TypeOf(optee.Arch(0)):
			value = field.Interface().(optee.Arch).String()
		case strings.HasSuffix(name, "Size") || strings.HasSuffix(name, "Usage"):
			value = fmt.Sprintf("0x%x (%s)", field.Uint(), humanize.IBytes(field.Uint()))
		default:
			value = fmt.Sprintf("0x%x", field.Uint())
		}
		fmt.Fprintf(w, "%-20s %s\n", name+":", value)
	}
	fmt.Fprintf(w, "%-20s %s of %s\n", "File Size:",
		humanize.IBytes(h.FileSize()), humanize.IBytes(imageLen))
}
