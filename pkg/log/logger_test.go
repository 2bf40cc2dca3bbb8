// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	SetDebug(false)
	l.Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetDebug(true)
	defer SetDebug(false)
	l.Debugf("shown %d", 2)
	assert.Contains(t, buf.String(), "[imagesig][DEBUG] shown 2")

	l.Warnf("w")
	l.Errorf("e")
	assert.Contains(t, buf.String(), "[imagesig][WARN] w")
	assert.Contains(t, buf.String(), "[imagesig][ERROR] e")
}
