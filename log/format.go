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
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/mattn/go-isatty"
)

const (
	termTimeFormat = "01-02|15:04:05.000"
	termMsgJust    = 40
	floatFormat    = 'f'
)

// colors for each level, used by the terminal handler when color output is
// enabled.
var levelColor = map[string]int{
	"TRACE": 34, // blue
	"DEBUG": 36, // cyan
	"INFO":  32, // green
	"WARN":  33, // yellow
	"ERROR": 31, // red
	"CRIT":  35, // magenta
}

// writeTimeTermFormat writes t using termTimeFormat without allocating a
// temporary string, matching time.AppendFormat's output byte for byte.
func writeTimeTermFormat(buf *bytes.Buffer, t time.Time) {
	buf.Write(t.AppendFormat(nil, termTimeFormat))
}

// FormatLogfmtInt64 formats n with thousands separators. Values whose
// magnitude is below 100000 are returned without separators.
func FormatLogfmtInt64(n int64) string {
	if n < 0 {
		return formatLogfmtUint64(uint64(-n), true)
	}
	return formatLogfmtUint64(uint64(n), false)
}

// FormatLogfmtUint64 formats n with thousands separators. Values below
// 100000 are returned without separators.
func FormatLogfmtUint64(n uint64) string {
	return formatLogfmtUint64(n, false)
}

func formatLogfmtUint64(n uint64, neg bool) string {
	in := strconv.FormatUint(n, 10)
	if n < 100000 {
		if neg {
			return "-" + in
		}
		return in
	}
	out := make([]byte, len(in)+(len(in)-1)/3)
	if neg {
		out = make([]byte, 1+len(in)+(len(in)-1)/3)
		out[0] = '-'
		out = out[1:]
	}
	if len(in) <= 3 {
		copy(out, in)
	} else {
		pos := len(in) % 3
		if pos > 0 {
			copy(out, in[:pos])
		}
		for i := pos; i < len(in); i += 3 {
			if i > 0 {
				out[pos] = ','
				pos++
			}
			copy(out[pos:], in[i:i+3])
			pos += 3
		}
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// formatLogfmtBigInt formats a *big.Int with thousands separators.
func formatLogfmtBigInt(n *big.Int) string {
	if n == nil {
		return "<nil>"
	}
	in := n.String()
	neg := strings.HasPrefix(in, "-")
	if neg {
		in = in[1:]
	}
	if len(in) <= 3 {
		if neg {
			return "-" + in
		}
		return in
	}
	var out strings.Builder
	if neg {
		out.WriteByte('-')
	}
	pos := len(in) % 3
	if pos > 0 {
		out.WriteString(in[:pos])
	}
	for i := pos; i < len(in); i += 3 {
		if i > 0 || pos > 0 {
			out.WriteByte(',')
		}
		out.WriteString(in[i : i+3])
	}
	return out.String()
}

// formatLogfmtUint256 formats a *uint256.Int with thousands separators,
// reusing big.Int's formatting since uint256 doesn't implement its own.
func formatLogfmtUint256(n *uint256.Int) string {
	if n == nil {
		return "<nil>"
	}
	return formatLogfmtBigInt(n.ToBig())
}

// formatShared is applied to a raw value, producing the value as it is
// rendered for terminal, logfmt and JSON output: timestamps use the
// "2006-01-02T15:04:05-0700" layout, errors become their Error() text,
// fmt.Stringers become their String() text, and every other value is
// returned unchanged. A nil pointer whose method panics becomes "<nil>".
func formatShared(value interface{}) (result interface{}) {
	defer func() {
		if err := recover(); err != nil {
			if v := reflect.ValueOf(value); v.Kind() == reflect.Ptr && v.IsNil() {
				result = "<nil>"
			} else {
				panic(err)
			}
		}
	}()

	switch v := value.(type) {
	case time.Time:
		return v.Format("2006-01-02T15:04:05-0700")
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

// formatLogfmtValue formats a value for key=value style output, quoting
// strings containing spaces and escaping control characters.
func formatLogfmtValue(value interface{}, term bool) string {
	if value == nil {
		return "<nil>"
	}
	switch v := value.(type) {
	case time.Time:
		return v.Format("2006-01-02T15:04:05-0700")
	case *big.Int:
		return formatLogfmtBigInt(v)
	case *uint256.Int:
		return formatLogfmtUint256(v)
	case int8, int16, int32, int64, int:
		return fmt.Sprintf("%d", v)
	case uint8, uint16, uint32, uint64, uint:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), floatFormat, 3, 64)
	case float64:
		return strconv.FormatFloat(v, floatFormat, 3, 64)
	case error:
		return escapeString(v.Error())
	case fmt.Stringer:
		return escapeString(v.String())
	}

	value = formatShared(value)
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)
	case string:
		return escapeString(v)
	default:
		return escapeString(fmt.Sprintf("%+v", v))
	}
}

// escapeString quotes s if it contains characters that would break logfmt
// parsing (spaces, quotes, control characters).
func escapeString(s string) string {
	needsQuoting := false
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r > '~' {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting {
		return s
	}
	return strconv.Quote(s)
}

// --- new, slog-native handlers -------------------------------------------

// NewTerminalHandler returns a slog.Handler producing human-readable,
// aligned, optionally colored output, in the shape:
//
//	INFO [01-02|15:04:05.000] message                  key=value key2=value2
func NewTerminalHandler(wr io.Writer, useColor bool) slog.Handler {
	return NewTerminalHandlerWithLevel(wr, LevelTrace, useColor)
}

// NewTerminalHandlerWithLevel is like NewTerminalHandler but only emits
// records at or above the given level.
func NewTerminalHandlerWithLevel(wr io.Writer, level slog.Level, useColor bool) slog.Handler {
	return &terminalHandler{
		wr:       wr,
		level:    level,
		useColor: useColor,
		attrs:    nil,
	}
}

type terminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	level    slog.Level
	useColor bool
	attrs    []slog.Attr
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	lvl := LevelString(r.Level)

	if h.useColor {
		color := levelColor[lvl]
		fmt.Fprintf(buf, "\x1b[%dm%s\x1b[0m", color, lvl)
	} else {
		buf.WriteString(lvl)
	}
	buf.WriteString(" [")
	writeTimeTermFormat(buf, r.Time)
	buf.WriteString("] ")
	msg := r.Message
	for _, c := range msg {
		if c == '\r' || c == '\n' || c == '\t' {
			continue
		}
		if c < ' ' || c > '~' || c == '=' {
			msg = strconv.Quote(msg)
			break
		}
	}
	buf.WriteString(msg)

	pad := termMsgJust - len(msg)
	for i := 0; i < pad; i++ {
		buf.WriteByte(' ')
	}

	writeAttr := func(a slog.Attr) {
		buf.WriteByte(' ')
		buf.WriteString(escapeString(a.Key))
		buf.WriteByte('=')
		buf.WriteString(formatLogfmtValue(a.Value.Any(), true))
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.wr.Write(buf.Bytes())
	return err
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	newAttrs = append(newAttrs, attrs...)
	return &terminalHandler{wr: h.wr, level: h.level, useColor: h.useColor, attrs: newAttrs}
}

func (h *terminalHandler) WithGroup(name string) slog.Handler {
	return h
}

// JSONHandler returns a slog.Handler that writes one JSON object per
// record, emitting records at Trace level and above.
func JSONHandler(wr io.Writer) slog.Handler {
	return JSONHandlerWithLevel(wr, LevelTrace)
}

// JSONHandlerWithLevel is like JSONHandler, filtering out records below level.
func JSONHandlerWithLevel(wr io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		Level:     level,
		ReplaceAttr: replaceJSONAttrs,
	})
}

func replaceJSONAttrs(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelString(lvl))
		}
	}
	if v := formatShared(a.Value.Any()); v != a.Value.Any() {
		a.Value = slog.AnyValue(v)
	}
	return a
}

// LogfmtHandler returns a slog.Handler emitting key=value pairs, one record
// per line, always including time/level/msg.
func LogfmtHandler(wr io.Writer) slog.Handler {
	return &logfmtHandler{wr: wr, level: LevelTrace}
}

type logfmtHandler struct {
	mu    sync.Mutex
	wr    io.Writer
	level slog.Level
	attrs []slog.Attr
}

func (h *logfmtHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *logfmtHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "t=%s lvl=%s msg=%s", r.Time.Format(time.RFC3339), LevelString(r.Level), escapeString(r.Message))
	for _, a := range h.attrs {
		fmt.Fprintf(buf, " %s=%s", a.Key, formatLogfmtValue(a.Value.Any(), false))
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(buf, " %s=%s", a.Key, formatLogfmtValue(a.Value.Any(), false))
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.wr.Write(buf.Bytes())
	return err
}

func (h *logfmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	newAttrs = append(newAttrs, attrs...)
	return &logfmtHandler{wr: h.wr, level: h.level, attrs: newAttrs}
}

func (h *logfmtHandler) WithGroup(name string) slog.Handler { return h }

var _ = isatty.IsTerminal
