/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

// DiagnosticSink receives human-readable query diagnostics. Sinks are
// invoked synchronously after each query and must return quickly.
type DiagnosticSink func(message string)

type queryTagKey struct{}

// WithQueryTag attaches an opaque label to queries run with the returned
// context. The label reaches the diagnostic sink as a leading "-- label"
// line and has no effect on results.
func WithQueryTag(ctx context.Context, tag string) context.Context {
	if tag == "" {
		return ctx
	}
	if prev := QueryTag(ctx); prev != "" {
		tag = prev + "\n-- " + tag
	}
	return context.WithValue(ctx, queryTagKey{}, tag)
}

// QueryTag returns the label attached by WithQueryTag, if any.
func QueryTag(ctx context.Context) string {
	tag, _ := ctx.Value(queryTagKey{}).(string)
	return tag
}

// diagnosticHook forwards every executed query to a sink.
type diagnosticHook struct {
	sink DiagnosticSink
}

var _ bun.QueryHook = (*diagnosticHook)(nil)

func (h *diagnosticHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *diagnosticHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	var b strings.Builder
	if tag := QueryTag(ctx); tag != "" {
		b.WriteString("-- ")
		b.WriteString(tag)
		b.WriteByte('\n')
	}
	b.WriteString(event.Query)
	fmt.Fprintf(&b, " [%s]", time.Since(event.StartTime).Round(time.Microsecond))
	if event.Err != nil {
		fmt.Fprintf(&b, " error=%v", event.Err)
	}
	h.emit(b.String())
}

func (h *diagnosticHook) emit(msg string) {
	defer func() { _ = recover() }()
	h.sink(msg)
}

// ConsoleSink writes diagnostics to w, coloured by statement kind.
func ConsoleSink(w io.Writer) DiagnosticSink {
	return func(message string) {
		_, _ = fmt.Fprintln(w, operationColor(message).Sprint(message))
	}
}

// LoggerSink writes diagnostics at info level.
func LoggerSink(l Logger) DiagnosticSink {
	return func(message string) {
		l.Info(message)
	}
}

func operationColor(message string) *color.Color {
	stmt := message
	for strings.HasPrefix(stmt, "-- ") {
		i := strings.IndexByte(stmt, '\n')
		if i < 0 {
			break
		}
		stmt = stmt[i+1:]
	}
	op := strings.ToUpper(strings.TrimSpace(stmt))
	if i := strings.IndexAny(op, " \n\t("); i > 0 {
		op = op[:i]
	}
	switch op {
	case "SELECT", "WITH":
		return color.New(color.FgGreen)
	case "INSERT":
		return color.New(color.FgBlue)
	case "UPDATE":
		return color.New(color.FgYellow)
	case "DELETE":
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgRed)
	}
}

type slowQueryHook struct {
	slowTime time.Duration
	logger   Logger
}

func (h *slowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil || h.logger == nil {
		return
	}

	duration := time.Since(event.StartTime)
	if duration > h.slowTime {
		h.logger.Warn("Database slow query detected",
			"duration", duration,
			"slow_threshold", h.slowTime,
			"tag", QueryTag(ctx),
			"query", event.Query,
		)
	}
}
