// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package list

import (
	"encoding/hex"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/linuxboot/imagesig/cmds/imgsig/commands"
	"github.com/linuxboot/imagesig/pkg/hash"
	"github.com/linuxboot/imagesig/pkg/imagesig"
	"github.com/linuxboot/imagesig/pkg/imagesig/backends"
)

var _ commands.Command = (*Command)(nil)

type Command struct{}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "lists the supported hash, checksum, crypto and padding algorithms"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Checksum and crypto algorithms are combined into signature algorithm names like \"sha256,rsa2048\"."
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if err := commands.NoExtraArgs(args); err != nil {
		return err
	}
	registry := backends.Registry()

	hashes := newTable("Hash algorithms", table.Row{"Name", "Digest size", "Chunk size"})
	for _, algo := range hash.Algorithms() {
		hashes.AppendRow(table.Row{algo.Name, algo.DigestSize, humanize.IBytes(uint64(algo.ChunkSize))})
	}
	hashes.Render()

	checksums := newTable("Checksum algorithms", table.Row{"Name", "Checksum length", "DER prefix"})
	for _, algo := range imagesig.ChecksumAlgorithms() {
		checksums.AppendRow(table.Row{algo.Name, algo.ChecksumLen, hex.EncodeToString(algo.DERPrefix)})
	}
	checksums.Render()

	cryptos := newTable("Crypto algorithms", table.Row{"Name", "Key length"})
	for _, algo := range registry.CryptoAlgorithms() {
		cryptos.AppendRow(table.Row{algo.Name(), algo.KeyLen()})
	}
	cryptos.Render()

	paddings := newTable("Padding algorithms", table.Row{"Name"})
	for _, algo := range registry.PaddingAlgorithms() {
		paddings.AppendRow(table.Row{algo.Name()})
	}
	paddings.Render()
	return nil
}

func newTable(title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(commands.Stdout)
	t.SetTitle(title)
	t.AppendHeader(header)
	return t
}
