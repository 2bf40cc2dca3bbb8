// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log is the logging facade of imagesig. Libraries log through it
// so that tools can redirect or silence the output in one place.
package log

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Logger describes a logger to be used in imagesig.
type Logger interface {
	// Debugf logs a debug message. It is dropped unless debugging is enabled.
	Debugf(format string, args ...interface{})

	// Warnf logs an warning message.
	Warnf(format string, args ...interface{})

	// Errorf logs an error message.
	Errorf(format string, args ...interface{})

	// Fatalf logs a fatal message and immediately exits the application
	// with os.Exit.
	Fatalf(format string, args ...interface{})
}

// DefaultLogger is the logger used by default everywhere within imagesig.
var DefaultLogger Logger

var debugEnabled atomic.Bool

func init() {
	DefaultLogger = New(os.Stderr)
}

// New returns the standard Logger writing to w.
func New(w io.Writer) Logger {
	return logWrapper{Logger: log.New(w, "", log.LstdFlags)}
}

// SetDebug toggles Debugf output of the standard Logger.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

type logWrapper struct {
	Logger *log.Logger
}

// Debugf implements Logger.
func (logger logWrapper) Debugf(format string, args ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	logger.Logger.Printf("[imagesig][DEBUG] "+format, args...)
}

// Warnf implements Logger.
func (logger logWrapper) Warnf(format string, args ...interface{}) {
	logger.Logger.Printf("[imagesig][WARN] "+format, args...)
}

// Errorf implements Logger.
func (logger logWrapper) Errorf(format string, args ...interface{}) {
	logger.Logger.Printf("[imagesig][ERROR] "+format, args...)
}

// Fatalf implements Logger.
func (logger logWrapper) Fatalf(format string, args ...interface{}) {
	logger.Logger.Fatalf("[imagesig][FATAL] "+format, args...)
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) {
	DefaultLogger.Debugf(format, args...)
}

// Warnf logs an warning message.
func Warnf(format string, args ...interface{}) {
	DefaultLogger.Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	DefaultLogger.Errorf(format, args...)
}

// Fatalf logs a fatal message and immediately exits the application
// with os.Exit (which is expected to be called by the DefaultLogger.Fatalf).
func Fatalf(format string, args ...interface{}) {
	DefaultLogger.Fatalf(format, args...)
}
