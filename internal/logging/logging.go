/*
 * MIT License
 *
 * Copyright (c) 2022-2022 waj334
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package logging provides the colored slog.Handler used by the command-line
// demonstration. It exists only for that demo; the client engine itself never
// logs anything.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// ColoredHandler implements slog.Handler, printing a timestamp, a colored
// level tag, the message, and any attributes on a single line.
type ColoredHandler struct {
	writer   io.Writer
	minLevel slog.Level
	attrs    []slog.Attr
	groups   []string
}

// New builds a *slog.Logger writing to writer (os.Stderr if nil), filtering
// out records below minLevel.
func New(minLevel slog.Level, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = os.Stderr
	}
	return slog.New(&ColoredHandler{writer: writer, minLevel: minLevel})
}

func (h *ColoredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *ColoredHandler) Handle(_ context.Context, r slog.Record) error {
	timestamp := r.Time.Format("15:04:05.000")
	line := fmt.Sprintf("%s %s %s", timestamp, h.coloredLevel(r.Level), r.Message)

	for _, a := range h.attrs {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})
	line += "\n"

	_, err := h.writer.Write([]byte(line))
	return err
}

func (h *ColoredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	copy(merged[len(h.attrs):], attrs)
	return &ColoredHandler{writer: h.writer, minLevel: h.minLevel, attrs: merged, groups: h.groups}
}

func (h *ColoredHandler) WithGroup(name string) slog.Handler {
	groups := make([]string, len(h.groups)+1)
	copy(groups, h.groups)
	groups[len(h.groups)] = name
	return &ColoredHandler{writer: h.writer, minLevel: h.minLevel, attrs: h.attrs, groups: groups}
}

func (h *ColoredHandler) coloredLevel(level slog.Level) string {
	var color, tag string
	switch level {
	case slog.LevelDebug:
		color, tag = colorGray, "DBG"
	case slog.LevelInfo:
		color, tag = colorBlue, "INF"
	case slog.LevelWarn:
		color, tag = colorYellow, "WRN"
	case slog.LevelError:
		color, tag = colorRed, "ERR"
	default:
		color, tag = colorReset, level.String()
	}
	return color + tag + colorReset
}
