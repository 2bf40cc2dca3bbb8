// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package addkey

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/linuxboot/imagesig/cmds/imgsig/commands"
	"github.com/linuxboot/imagesig/pkg/fdt"
	"github.com/linuxboot/imagesig/pkg/imagesig/backends"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	KeysPath   string `short:"k" long:"keys" description:"path to the device tree blob to store the key in; created if missing" required:"true"`
	Algo       string `short:"a" long:"algo" description:"signature algorithm, e.g. sha256,rsa2048" required:"true"`
	KeyPath    string `long:"key" description:"path to a PEM public key or certificate" required:"true"`
	KeyName    string `short:"n" long:"key-name" description:"key name, the node is /signature/key-<NAME>" required:"true"`
	Required   string `short:"r" long:"required" description:"mark the key as required for 'conf' or 'image'"`
	OutputPath string `short:"o" long:"output" description:"where to write the result (default: overwrite --keys)"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "stores a public key in a control device tree"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "An existing key node with the same name is replaced."
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if err := commands.NoExtraArgs(args); err != nil {
		return err
	}
	switch cmd.Required {
	case "", "conf", "image":
	default:
		return commands.ErrArgs{Err: fmt.Errorf("--required must be 'conf' or 'image', got '%s'", cmd.Required)}
	}

	info, err := backends.Registry().NewSignInfo(cmd.Algo, "", nil, cmd.KeyName)
	if err != nil {
		return commands.ErrArgs{Err: err}
	}

	pemData, err := commands.ReadFile(cmd.KeyPath, "public key")
	if err != nil {
		return err
	}
	pub, err := parsePublicKey(pemData)
	if err != nil {
		return fmt.Errorf("unable to parse '%s': %w", cmd.KeyPath, err)
	}

	keys := fdt.New()
	if _, err := os.Stat(cmd.KeysPath); err == nil {
		if keys, err = commands.ReadTree(cmd.KeysPath, "keys"); err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to access '%s': %w", cmd.KeysPath, err)
	}

	if _, err := info.Crypto.AddVerifyData(keys, cmd.Algo, cmd.KeyName, pub, cmd.Required); err != nil {
		return fmt.Errorf("unable to add the key: %w", err)
	}

	outputPath := cmd.OutputPath
	if outputPath == "" {
		outputPath = cmd.KeysPath
	}
	return commands.WriteTree(keys, outputPath)
}

func parsePublicKey(pemData []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("no PEM block")
	}
	switch block.Type {
	case "PUBLIC KEY":
		return x509.ParsePKIXPublicKey(block.Bytes)
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		return cert.PublicKey, nil
	}
	return nil, fmt.Errorf("unsupported PEM block '%s'", block.Type)
}
