// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package command runs an external program as the extraction step.

The program receives the output location through placeholders in its
arguments:

	{outputDir}   directory the catalog must be written to
	{outputFile}  file name of the catalog
	{outputPath}  both joined
	{format}      requested catalog format

The placeholders point into a staging directory. The catalog is copied to
the requested location only when the program exits successfully, so a program
that fails halfway never leaves a partial catalog behind. Programs that write
to a fixed path instead of the placeholders are not staged.

Standard output and standard error are forwarded to the debug log. A non-zero
exit status fails the extraction with the last lines of standard error.
*/
package command

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"codeberg.org/pixivfe/i18nmerge/core/extract"
	"codeberg.org/pixivfe/i18nmerge/core/storage"
)

// ID is the identifier of this extractor.
const ID = "command"

const stderrTailLines = 5

var errNoCommand = errors.New("no extraction command configured")

// Config describes the program to run.
type Config struct {
	// Args is the program followed by its arguments.
	Args []string

	// Dir is the working directory, the current one if empty.
	Dir string
}

// Extractor runs an external program.
type Extractor struct {
	cfg    Config
	logger zerolog.Logger
}

// New returns an Extractor for cfg.
func New(cfg Config, logger zerolog.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg,
		logger: logger.With().Str("extractor", ID).Logger(),
	}
}

// ID implements [extract.Extractor].
func (e *Extractor) ID() string {
	return ID
}

// Extract implements [extract.Extractor].
func (e *Extractor) Extract(ctx context.Context, req extract.Request) extract.Result {
	if len(e.cfg.Args) == 0 {
		return extract.Failed(errNoCommand)
	}

	staging, err := os.MkdirTemp("", "i18nmerge-command-*")
	if err != nil {
		return extract.Failed(fmt.Errorf("failed to create staging directory: %w", err))
	}

	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			e.logger.Warn().Err(err).Str("path", staging).Msg("Failed to remove staging directory")
		}
	}()

	staged := req
	staged.OutputDir = staging

	if err := e.run(ctx, Expand(e.cfg.Args, staged)); err != nil {
		return extract.Failed(err)
	}

	if err := e.commit(staged.Path(), req.Path()); err != nil {
		return extract.Failed(err)
	}

	return extract.Succeeded()
}

func (e *Extractor) run(ctx context.Context, args []string) error {
	// #nosec G204 -- the command line is operator configuration
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = e.cfg.Dir

	var stderr bytes.Buffer

	stdoutLog := lineWriter{logger: e.logger, stream: "stdout"}
	stderrLog := lineWriter{logger: e.logger, stream: "stderr"}

	cmd.Stdout = &stdoutLog
	cmd.Stderr = io.MultiWriter(&stderrLog, &stderr)

	e.logger.Debug().Strs("args", args).Msg("Running extraction command")

	err := cmd.Run()

	stdoutLog.flush()
	stderrLog.flush()

	if err != nil {
		if tail := Tail(stderr.String(), stderrTailLines); tail != "" {
			return fmt.Errorf("%s: %w: %s", args[0], err, tail)
		}

		return fmt.Errorf("%s: %w", args[0], err)
	}

	return nil
}

// commit copies the staged catalog to dst. Nothing is copied when the program
// did not write to the staging directory.
func (e *Extractor) commit(staged, dst string) error {
	data, ok, err := storage.LoadIfExists(staged)
	if err != nil {
		return err
	}

	if !ok {
		e.logger.Debug().Str("path", dst).Msg("Command wrote no staged catalog")

		return nil
	}

	return storage.Save(dst, data)
}

// Expand substitutes the request placeholders in args.
func Expand(args []string, req extract.Request) []string {
	r := strings.NewReplacer(
		"{outputDir}", req.OutputDir,
		"{outputFile}", req.OutputFile,
		"{outputPath}", req.Path(),
		"{format}", req.Format,
	)

	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}

	return out
}

// Tail returns the last n non-empty lines of s joined by "; ".
func Tail(s string, n int) string {
	var lines []string

	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.Join(lines, "; ")
}

// lineWriter logs every complete line written to it.
type lineWriter struct {
	logger zerolog.Logger
	stream string
	buf    []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.log(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *lineWriter) flush() {
	if len(w.buf) > 0 {
		w.log(w.buf)
		w.buf = nil
	}
}

func (w *lineWriter) log(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return
	}

	w.logger.Debug().Str("stream", w.stream).Bytes("line", line).Msg("Extractor output")
}
