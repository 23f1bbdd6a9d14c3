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
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// GlogHandler wraps another handler and allows the global verbosity and
// per-file verbosity (vmodule) to be adjusted at runtime, mirroring the
// glog-style -v/-vmodule flags used to tune logging in long-running node
// processes.
type GlogHandler struct {
	origin slog.Handler

	level     atomic.Int32 // global verbosity
	override  atomic.Bool  // true if any vmodule patterns are set

	mu      sync.RWMutex
	patterns []vmodulePattern
}

type vmodulePattern struct {
	pattern string
	level   slog.Level
}

// NewGlogHandler returns a GlogHandler wrapping h.
func NewGlogHandler(h slog.Handler) *GlogHandler {
	g := &GlogHandler{origin: h}
	g.level.Store(int32(LevelInfo))
	return g
}

// Verbosity sets the global verbosity level all logs below which are dropped,
// unless a more specific vmodule pattern applies.
func (g *GlogHandler) Verbosity(level slog.Level) {
	g.level.Store(int32(level))
}

// Vmodule sets the glog-style file pattern, e.g. "foo.go=3,bar*=5". A rule's
// numeric level is interpreted as a glog verbosity (0 quiet, 9 everything)
// and mapped onto our Level space via glogNumToLevel.
func (g *GlogHandler) Vmodule(ruleset string) error {
	var patterns []vmodulePattern
	for _, rule := range strings.Split(ruleset, ",") {
		if rule == "" {
			continue
		}
		parts := strings.Split(rule, "=")
		if len(parts) != 2 {
			return fmt.Errorf("invalid vmodule rule %q", rule)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("invalid vmodule level in rule %q: %w", rule, err)
		}
		patterns = append(patterns, vmodulePattern{pattern: parts[0], level: glogNumToLevel(n)})
	}
	g.mu.Lock()
	g.patterns = patterns
	g.mu.Unlock()
	g.override.Store(len(patterns) > 0)
	return nil
}

// glogNumToLevel maps a glog -vmodule numeric level (0 = quiet, 9 = very
// verbose) onto our slog.Level space, where Trace is the most verbose.
func glogNumToLevel(n int) slog.Level {
	switch {
	case n <= 0:
		return LevelCrit
	case n == 1:
		return LevelError
	case n == 2:
		return LevelWarn
	case n == 3:
		return LevelInfo
	case n == 4:
		return LevelDebug
	default:
		return LevelTrace
	}
}

func (g *GlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if g.override.Load() {
		return true // resolved precisely in Handle, where the caller file is known
	}
	return level >= slog.Level(g.level.Load())
}

func (g *GlogHandler) Handle(ctx context.Context, r slog.Record) error {
	if g.override.Load() {
		file := callerFile(r.PC)
		g.mu.RLock()
		threshold, matched := g.matchLevel(file)
		g.mu.RUnlock()
		if matched {
			if r.Level < threshold {
				return nil
			}
			return g.origin.Handle(ctx, r)
		}
	}
	if r.Level < slog.Level(g.level.Load()) {
		return nil
	}
	return g.origin.Handle(ctx, r)
}

func (g *GlogHandler) matchLevel(file string) (slog.Level, bool) {
	base := filepath.Base(file)
	for _, p := range g.patterns {
		if ok, _ := filepath.Match(p.pattern, base); ok {
			return p.level, true
		}
	}
	return 0, false
}

func callerFile(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	return frame.File
}

func (g *GlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &GlogHandler{origin: g.origin.WithAttrs(attrs), patterns: g.patterns}
}

func (g *GlogHandler) WithGroup(name string) slog.Handler {
	return &GlogHandler{origin: g.origin.WithGroup(name), patterns: g.patterns}
}

// countingWriter wraps a file, counting the number of newlines written so
// far, used to decide whether a freshly opened log file already ends
// mid-line.
type countingWriter struct {
	*os.File
	count int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			w.count++
		}
	}
	return w.File.Write(p)
}

// prepFile opens path for appending, counting existing newlines so that a
// log rotation handler can decide whether to insert a leading newline
// before the first write.
func prepFile(path string) (*countingWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	w := &countingWriter{File: f}
	r := bufio.NewReader(f)
	for {
		b, err := r.ReadByte()
		if err != nil {
			break
		}
		if b == '\n' {
			w.count++
		}
	}
	return w, nil
}
