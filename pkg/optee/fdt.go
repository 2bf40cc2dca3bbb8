// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optee

import (
	"errors"
	"fmt"
	"strings"

	"github.com/u-root/u-root/pkg/dt"

	"github.com/linuxboot/imagesig/pkg/fdt"
	"github.com/linuxboot/imagesig/pkg/log"
)

const (
	firmwarePath       = "/firmware"
	nodePath           = "/firmware/optee"
	reservedMemoryPath = "/reserved-memory"
	reservationPrefix  = "optee"
)

// ErrMissingProperty means the OP-TEE node lacks a required property.
var ErrMissingProperty = errors.New("missing property")

var firmwareProperties = []string{"compatible", "method"}

func checkFirmwareNode(src *dt.Node) error {
	for _, name := range firmwareProperties {
		if _, ok := fdt.Prop(src, name); !ok {
			return fmt.Errorf("'%s' of '%s': %w", name, src.Name, ErrMissingProperty)
		}
	}
	return nil
}

// CopyFirmwareNode creates /firmware/optee in "dst" with the "compatible"
// and "method" properties of "src". /firmware is created if needed. dst is
// not modified if src lacks either property.
func CopyFirmwareNode(src *dt.Node, dst *fdt.Tree) error {
	if err := checkFirmwareNode(src); err != nil {
		return err
	}

	firmware, ok := dst.Lookup(firmwarePath)
	if !ok {
		var err error
		if firmware, err = dst.AddSubnode(dst.Root(), firmwarePath[1:]); err != nil {
			return fmt.Errorf("unable to create '%s': %w", firmwarePath, err)
		}
	}
	node, err := dst.AddSubnode(firmware, reservationPrefix)
	if err != nil {
		return fmt.Errorf("unable to create '%s': %w", nodePath, err)
	}
	for _, name := range firmwareProperties {
		value, _ := fdt.Prop(src, name)
		fdt.SetProp(node, name, value)
	}
	return nil
}

// CopyFDTNodes passes the OP-TEE nodes of the control tree on to "dst":
// /firmware/optee and the /reserved-memory carveouts named "optee*",
// which are added as no-map reservations.
//
// Nothing is done if the control tree has no OP-TEE node, or if dst
// already has one, so running it again is a no-op.
func CopyFDTNodes(control, dst *fdt.Tree) error {
	if control == nil || dst == nil {
		return fmt.Errorf("no device tree: %w", fdt.ErrBadTree)
	}
	src, ok := control.Lookup(nodePath)
	if !ok {
		log.Debugf("no '%s' in the control tree", nodePath)
		return nil
	}
	if _, ok := dst.Lookup(nodePath); ok {
		log.Debugf("'%s' already exists", nodePath)
		return nil
	}
	if err := checkFirmwareNode(src); err != nil {
		return err
	}

	if parent, ok := control.Lookup(reservedMemoryPath); ok {
		for _, child := range parent.Children {
			if !strings.HasPrefix(child.Name, reservationPrefix) {
				continue
			}
			res, err := fdt.ReadResource(parent, child, 0)
			if err != nil {
				log.Debugf("skipping '%s': %v", child.Name, err)
				continue
			}
			basename, _, _ := strings.Cut(child.Name, "@")
			if _, err := dst.AddReservedMemory(basename, 0, res, fdt.ReservedMemoryNoMap); err != nil {
				return fmt.Errorf("unable to reserve %s for '%s': %w", res, child.Name, err)
			}
		}
	}

	return CopyFirmwareNode(src, dst)
}
