// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"fmt"
	"runtime/trace"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Span represents one pipeline step in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration

	Step   Step
	RunID  string
	Locale string
	Path   string
	Bytes  int
	Error  error
}

// Step names a unit of work of a pipeline run.
type Step string

// Constants for pipeline steps.
const (
	StepExtract Step = "extract"
	StepMerge   Step = "merge"
	StepWrite   Step = "write"
	StepCheck   Step = "check"
)

// Begin starts timing the span and opens a runtime/trace task for it.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "i18nmerge."+string(span.Step))

	return ctx
}

// End stops timing the span. Calling End more than once has no effect.
func (span *Span) End() {
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		span.task = nil
	}
}

// Duration returns the time between Begin and End.
func (span Span) Duration() time.Duration {
	return span.duration
}

// Log writes the span to logger at debug level, or at error level when it failed.
func (span Span) Log(logger zerolog.Logger) {
	var event *zerolog.Event

	if span.Error != nil {
		event = logger.Error().Err(span.Error)
	} else {
		event = logger.Debug()
	}

	event.Str("step", string(span.Step))
	event.Dur("dur", span.duration)

	if span.RunID != "" {
		event.Str("run", span.RunID)
	}

	if span.Locale != "" {
		event.Str("locale", span.Locale)
	}

	if span.Path != "" {
		event.Str("path", span.Path)
	}

	if span.Bytes > 0 {
		event.Str("len", humanizeSize(span.Bytes))
	}

	event.Msg("Step finished")
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int) string {
	if x < bytesInKB {
		return strconv.Itoa(x)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
