// Copyright 2023 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"os"
	"sync/atomic"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

var root atomic.Pointer[Logger]

func init() {
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	// colorable.NewColorableStderr passes ANSI codes through unchanged
	// on platforms that support them natively and translates them to
	// Win32 console calls on Windows, where os.Stderr otherwise prints
	// raw escape sequences.
	l := NewLogger(NewTerminalHandler(colorable.NewColorableStderr(), useColor))
	root.Store(&l)
}

// Root returns the root logger.
func Root() Logger {
	return *root.Load()
}

// SetDefault sets the default global logger returned by Root.
func SetDefault(l Logger) {
	root.Store(&l)
}

// The following package-level functions log through the root logger,
// matching the convenience functions used throughout the corpus
// (`log.Info(...)` instead of threading a Logger everywhere).

func Trace(msg string, ctx ...interface{}) { Root().Write(LevelTrace, msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { Root().Write(LevelDebug, msg, ctx...) }
func Info(msg string, ctx ...interface{})  { Root().Write(LevelInfo, msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { Root().Write(LevelWarn, msg, ctx...) }
func Error(msg string, ctx ...interface{}) { Root().Write(LevelError, msg, ctx...) }
func Crit(msg string, ctx ...interface{}) {
	Root().Write(LevelCrit, msg, ctx...)
	os.Exit(1)
}
