// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mia-platform/taskprobe/internal/logger"
)

const levelSeparator = ":"

// ErrMalformedEntry reports a line that does not follow the record layout.
var ErrMalformedEntry = errors.New("malformed entry")

// Entry is a single line of the task log.
type Entry struct {
	Line    int
	Time    time.Time
	Level   string
	Message string
	Raw     string

	// Malformed is set when Raw could not be parsed; only Line and Raw are valid.
	Malformed bool
}

// ParseEntry parses a "<timestamp> <LEVEL>:<message>" line.
// Timestamps are interpreted in the local time zone.
func ParseEntry(line string) (Entry, error) {
	entry := Entry{Raw: line}

	if len(line) <= len(logger.RecordTimeFormat) || line[len(logger.RecordTimeFormat)] != ' ' {
		return entry, fmt.Errorf("%w: missing timestamp", ErrMalformedEntry)
	}

	timestamp, err := time.ParseInLocation(logger.RecordTimeFormat, line[:len(logger.RecordTimeFormat)], time.Local)
	if err != nil {
		return entry, fmt.Errorf("%w: %w", ErrMalformedEntry, err)
	}

	level, message, found := strings.Cut(line[len(logger.RecordTimeFormat)+1:], levelSeparator)
	if !found || !logger.IsValidLevel(level) {
		return entry, fmt.Errorf("%w: missing level", ErrMalformedEntry)
	}

	entry.Time = timestamp
	entry.Level = level
	entry.Message = message
	return entry, nil
}

// ReadEntries reads every line of the task log at path. Lines that cannot be
// parsed are returned with Malformed set; empty lines are skipped.
// Lines have no length limit, a probe run can record arguments of any size.
func ReadEntries(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJournal, err)
	}
	defer file.Close()

	entries := make([]Entry, 0)
	reader := bufio.NewReader(file)

	lineNumber := 0
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("%w: %s: %w", ErrJournal, path, readErr)
		}
		if line == "" && readErr != nil {
			break
		}

		lineNumber++
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line != "" {
			entry, err := ParseEntry(line)
			if err != nil {
				entry.Malformed = true
			}
			entry.Line = lineNumber
			entries = append(entries, entry)
		}

		if readErr != nil {
			break
		}
	}

	return entries, nil
}
