// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mia-platform/taskprobe/internal/invocation"
	"github.com/mia-platform/taskprobe/internal/journal"
	"github.com/mia-platform/taskprobe/internal/logger"
)

const loggerName = "taskprobe:probe"

var (
	// ErrExecutablePath reports a failure to resolve the location of the running binary.
	ErrExecutablePath = errors.New("cannot resolve executable location")

	// executable can be overridden for testing purposes.
	executable = os.Executable
)

// Options holds everything a single probe run needs.
type Options struct {
	// Args are the command line arguments, without the program name.
	Args []string
	// LogPath is the task log the run appends to.
	LogPath string
	// Stdout receives the summary line.
	Stdout io.Writer
	// Now stamps the invocation record and the log lines, time.Now is used if nil.
	Now func() time.Time
}

// LogPath returns the absolute path of the task log placed in the same
// directory as executablePath. Symbolic links are resolved first so the result
// only depends on where the binary really lives.
func LogPath(executablePath string) (string, error) {
	resolved, err := filepath.EvalSymlinks(executablePath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecutablePath, err)
	}

	dir, err := filepath.Abs(filepath.Dir(resolved))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecutablePath, err)
	}

	return filepath.Join(dir, journal.FileName), nil
}

// ExecutableLogPath returns the task log path for the running executable.
func ExecutableLogPath() (string, error) {
	executablePath, err := executable()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecutablePath, err)
	}

	return LogPath(executablePath)
}

// Run appends the startup marker and the arguments description to the task
// log, then writes the summary line to opts.Stdout. Nothing is printed if the
// task log cannot be written.
func Run(ctx context.Context, opts Options) error {
	log := logger.FromContext(ctx).WithName(loggerName)

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	record := invocation.New(opts.Args, now())

	log.Debug("opening task log", "path", opts.LogPath)
	taskLog, err := journal.Open(opts.LogPath)
	if err != nil {
		return err
	}

	if err := writeRecord(taskLog, record, now); err != nil {
		_ = taskLog.Close()
		return err
	}

	if err := taskLog.Close(); err != nil {
		return err
	}
	log.Debug("invocation recorded", "path", taskLog.Path(), "arguments", len(record.Args))

	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	_, err = fmt.Fprintln(stdout, record.Summary())
	return err
}

// writeRecord appends the two lines of a run while holding the task log lock,
// so runs of concurrent processes never interleave.
func writeRecord(taskLog *journal.Journal, record invocation.Record, now func() time.Time) error {
	if err := taskLog.Lock(); err != nil {
		return err
	}

	recordLog := logger.NewRecordLogger(taskLog, now)
	recordLog.Info(invocation.StartupMessage)
	recordLog.Info(record.Message())

	if err := taskLog.Err(); err != nil {
		return err
	}

	return taskLog.Unlock()
}
