// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optee

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"

	"github.com/linuxboot/imagesig/pkg/compression"
	"github.com/linuxboot/imagesig/pkg/log"
)

var (
	ErrBadMagic      = errors.New("bad magic")
	ErrBadVersion    = errors.New("unsupported header version")
	ErrSizeMismatch  = errors.New("image size does not match the header")
	ErrOutsideTZDRAM = errors.New("image does not fit the TZDRAM window")
	ErrLoadAddress   = errors.New("image is not loaded where the header expects")
)

// Config is the secure memory window the TEE must be placed in. A zero
// TZDRAMSize disables the window checks.
type Config struct {
	TZDRAMStart uint64
	TZDRAMSize  uint64
}

// TZDRAMEnd returns the first address after the window.
func (c Config) TZDRAMEnd() uint64 {
	return c.TZDRAMStart + c.TZDRAMSize
}

// VerificationError is returned when an image is rejected. Err holds
// every failed check.
type VerificationError struct {
	Header *Header
	Config Config

	// ImageAddr is where the image (and so the header) is in memory.
	ImageAddr uint64

	// LoadAddr is the load address of the boot image.
	LoadAddr uint64

	ImageLen uint64

	Err error
}

// Diagnostic describes the rejected image.
func (err *VerificationError) Diagnostic() string {
	var b strings.Builder
	fmt.Fprintf(&b, "OPTEE verification error:\n")
	fmt.Fprintf(&b, "\thdr=0x%08x image=0x%08x magic=0x%08x tzdram 0x%08x-0x%08x\n",
		err.ImageAddr, err.ImageAddr, err.Header.Magic, err.Config.TZDRAMStart, err.Config.TZDRAMEnd())
	fmt.Fprintf(&b, "\theader lo=0x%08x hi=0x%08x size=0x%08x (%s) arch=0x%08x\n",
		err.Header.InitLoadAddrLo, err.Header.InitLoadAddrHi, err.ImageLen,
		humanize.IBytes(err.ImageLen), uint8(err.Header.Arch))
	fmt.Fprintf(&b, "\tuimage params 0x%08x-0x%08x", err.LoadAddr, err.LoadAddr+err.ImageLen)
	return b.String()
}

func (err *VerificationError) Error() string {
	return fmt.Sprintf("%s\n%v", err.Diagnostic(), err.Err)
}

func (err *VerificationError) Unwrap() error {
	return err.Err
}

// VerifyImage checks the magic, the version and that the declared size is
// imageLen, without a TZDRAM window.
func VerifyImage(h *Header, imageLen uint64) error {
	return Config{}.VerifyImage(h, imageLen)
}

// VerifyImage checks the magic, the version and that the declared size is
// imageLen. With a TZDRAM window the init part must also be placed inside
// it.
func (c Config) VerifyImage(h *Header, imageLen uint64) error {
	if result := c.check(h, imageLen); result != nil {
		return &VerificationError{Header: h, Config: c, ImageLen: imageLen, Err: result}
	}
	return nil
}

func (c Config) check(h *Header, imageLen uint64) *multierror.Error {
	var result *multierror.Error
	if h.Magic != Magic {
		result = multierror.Append(result, fmt.Errorf("%w: 0x%08x", ErrBadMagic, h.Magic))
	}
	if h.Version != Version {
		result = multierror.Append(result, fmt.Errorf("%w: %d", ErrBadVersion, h.Version))
	}
	fileSize := h.FileSize()
	if fileSize != imageLen {
		result = multierror.Append(result, fmt.Errorf("%w: header declares %d bytes, image is %d", ErrSizeMismatch, fileSize, imageLen))
	}

	if c.TZDRAMSize == 0 {
		return result
	}
	end := c.TZDRAMEnd()
	lo, hi := uint64(h.InitLoadAddrLo), uint64(h.InitLoadAddrHi)
	if hi > end {
		result = multierror.Append(result, fmt.Errorf("%w: load address hi 0x%x is after 0x%x", ErrOutsideTZDRAM, hi, end))
	}
	if lo < c.TZDRAMStart {
		result = multierror.Append(result, fmt.Errorf("%w: load address lo 0x%x is before 0x%x", ErrOutsideTZDRAM, lo, c.TZDRAMStart))
	}
	if fileSize > c.TZDRAMSize {
		result = multierror.Append(result, fmt.Errorf("%w: %d bytes do not fit %d", ErrOutsideTZDRAM, fileSize, c.TZDRAMSize))
	} else if lo+fileSize > end {
		result = multierror.Append(result, fmt.Errorf("%w: 0x%x+0x%x ends after 0x%x", ErrOutsideTZDRAM, lo, fileSize, end))
	}
	return result
}

// VerifyBootImage verifies the image at imageAddr, loaded as a boot image
// at loadAddr. Besides VerifyImage, the header must expect its init part
// right after the header at loadAddr.
//
// On rejection the diagnostic is logged and the *VerificationError is
// returned.
func (c Config) VerifyBootImage(image []byte, imageAddr, loadAddr uint64) error {
	h, err := ParseHeader(image)
	if err != nil {
		log.Errorf("OPTEE verification error: image=0x%08x: %v", imageAddr, err)
		return err
	}

	imageLen := uint64(len(image))
	result := c.check(h, imageLen)
	if loadAddr+HeaderSize != uint64(h.InitLoadAddrLo) {
		result = multierror.Append(result, fmt.Errorf("%w: 0x%x+%d is not 0x%x",
			ErrLoadAddress, loadAddr, HeaderSize, h.InitLoadAddrLo))
	}
	if result == nil {
		return nil
	}

	verr := &VerificationError{
		Header:    h,
		Config:    c,
		ImageAddr: imageAddr,
		LoadAddr:  loadAddr,
		ImageLen:  imageLen,
		Err:       result,
	}
	log.Errorf("%s", verr.Diagnostic())
	return verr
}

// Decode decompresses a TEE payload of compression "t" for verification.
// maxSize limits the result if positive.
func Decode(image []byte, t compression.Type, maxSize int) ([]byte, error) {
	decoded, err := compression.Decompress(t, image, maxSize)
	if err != nil {
		return nil, fmt.Errorf("unable to decode the TEE image: %w", err)
	}
	return decoded, nil
}
