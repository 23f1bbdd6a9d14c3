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

// Package log provides a structured, leveled logger built on top of
// log/slog, used throughout the staking ledger, header importer and
// piece cache to report state transitions and I/O faults.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"runtime"
	"time"
)

const errorKey = "LOG_ERROR"

// The Level constants below extend slog's levels downward so that Trace is
// distinguishable from Debug, matching the levels used by the consensus and
// storage packages in this module.
const (
	LevelTrace slog.Level = -8
	LevelDebug slog.Level = slog.LevelDebug
	LevelInfo  slog.Level = slog.LevelInfo
	LevelWarn  slog.Level = slog.LevelWarn
	LevelError slog.Level = slog.LevelError
	LevelCrit  slog.Level = 12
)

// levelToName maps a slog.Level to the string used by our handlers.
var levelToName = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelCrit:  "CRIT",
}

// LevelString returns the human readable name of the given level. A level
// between two named levels takes the name of the next higher one, and any
// level above LevelError is reported as CRIT.
func LevelString(lvl slog.Level) string {
	switch {
	case lvl <= LevelTrace:
		return "TRACE"
	case lvl <= LevelDebug:
		return "DEBUG"
	case lvl <= LevelInfo:
		return "INFO"
	case lvl <= LevelWarn:
		return "WARN"
	case lvl <= LevelError:
		return "ERROR"
	default:
		return "CRIT"
	}
}

// Logger writes key/value structured log records. Every method accepts the
// message followed by alternating key/value pairs, mirroring slog's
// convention.
type Logger interface {
	// With returns a new Logger that has the given key/value pairs set.
	With(ctx ...interface{}) Logger
	// New is an alias for With.
	New(ctx ...interface{}) Logger

	// Log logs a message at the specified level, with the given context.
	Log(level slog.Level, msg string, ctx ...interface{})

	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})

	// Write logs a message at the specified level using the standard logger
	// conventions.
	Write(level slog.Level, msg string, attrs ...any)

	// Handler returns the underlying handler of the logger.
	Handler() slog.Handler

	// Enabled reports whether l emits log records at the given context and level.
	Enabled(ctx context.Context, level slog.Level) bool
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the specified handler set.
func NewLogger(h slog.Handler) Logger {
	return &logger{
		inner: slog.New(h),
	}
}

func (l *logger) Handler() slog.Handler {
	return l.inner.Handler()
}

// Write logs a message at the specified level.
func (l *logger) Write(level slog.Level, msg string, attrs ...any) {
	if len(attrs)%2 != 0 {
		attrs = append(attrs, nil, errorKey, "Normalized odd number of arguments by adding nil")
	}
	l.write(msg, level, attrs)
}

func (l *logger) write(msg string, level slog.Level, attrs []any) {
	ctx := context.Background()
	if !l.inner.Enabled(ctx, level) {
		return
	}
	// Skip runtime.Callers, write, Write and the level method so that the
	// record's PC names the caller's file, which vmodule matches on.
	var pcs [1]uintptr
	runtime.Callers(4, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(attrs...)
	_ = l.inner.Handler().Handle(ctx, r)
}

func (l *logger) Log(level slog.Level, msg string, ctx ...interface{}) {
	l.Write(level, msg, ctx...)
}

func (l *logger) With(ctx ...interface{}) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) New(ctx ...interface{}) Logger {
	return l.With(ctx...)
}

func (l *logger) Trace(msg string, ctx ...interface{}) {
	l.Write(LevelTrace, msg, ctx...)
}

func (l *logger) Debug(msg string, ctx ...interface{}) {
	l.Write(LevelDebug, msg, ctx...)
}

func (l *logger) Info(msg string, ctx ...interface{}) {
	l.Write(LevelInfo, msg, ctx...)
}

func (l *logger) Warn(msg string, ctx ...interface{}) {
	l.Write(LevelWarn, msg, ctx...)
}

func (l *logger) Error(msg string, ctx ...interface{}) {
	l.Write(LevelError, msg, ctx...)
}

func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.Write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

// New creates a new logger using the current default handler, with the
// given context attached. It exists for compatibility with the pre-slog
// idiom used elsewhere in the corpus (`log.New("module", "staking")`).
func New(ctx ...interface{}) Logger {
	return Root().With(ctx...)
}

// TypeOf returns an slog.Value carrying the dynamic type name of v, useful
// for debug logging of interface-typed fields without stringifying the
// whole value.
func TypeOf(v any) typeOfValue {
	return typeOfValue{reflect.TypeOf(v)}
}

type typeOfValue struct {
	t reflect.Type
}

func (t typeOfValue) LogValue() slog.Value {
	if t.t == nil {
		return slog.StringValue("<nil>")
	}
	return slog.StringValue(t.t.String())
}

// Lazy defers evaluation of an slog.Value until the record is actually
// going to be emitted, avoiding the cost of building it for disabled levels.
type Lazy func() slog.Value

func (fn Lazy) LogValue() slog.Value {
	return slog.AnyValue(fn())
}

// fmtError renders an error's message, or "<nil>" for a nil error.
func fmtError(err error) string {
	if err == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", err)
}

var _ = time.Now // keeps the time import referenced in this file
