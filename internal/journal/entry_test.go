// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package journal

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntry(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		line          string
		expectedEntry Entry
		expectedError error
	}{
		"info record": {
			line: "2025-05-20 10:00:05,123 INFO:taskprobe started",
			expectedEntry: Entry{
				Time:    time.Date(2025, time.May, 20, 10, 0, 5, 123_000_000, time.Local),
				Level:   "INFO",
				Message: "taskprobe started",
				Raw:     "2025-05-20 10:00:05,123 INFO:taskprobe started",
			},
		},
		"message with colons": {
			line: `2025-05-20 10:00:05,000 INFO:started with arguments: ["a:b"]`,
			expectedEntry: Entry{
				Time:    time.Date(2025, time.May, 20, 10, 0, 5, 0, time.Local),
				Level:   "INFO",
				Message: `started with arguments: ["a:b"]`,
				Raw:     `2025-05-20 10:00:05,000 INFO:started with arguments: ["a:b"]`,
			},
		},
		"empty message": {
			line: "2025-05-20 10:00:05,000 WARN:",
			expectedEntry: Entry{
				Time:  time.Date(2025, time.May, 20, 10, 0, 5, 0, time.Local),
				Level: "WARN",
				Raw:   "2025-05-20 10:00:05,000 WARN:",
			},
		},
		"too short": {
			line:          "2025-05-20",
			expectedError: ErrMalformedEntry,
		},
		"invalid timestamp": {
			line:          "2025-13-20 10:00:05,000 INFO:message",
			expectedError: ErrMalformedEntry,
		},
		"missing level separator": {
			line:          "2025-05-20 10:00:05,000 INFO message",
			expectedError: ErrMalformedEntry,
		},
		"unknown level": {
			line:          "2025-05-20 10:00:05,000 WARNING:message",
			expectedError: ErrMalformedEntry,
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			entry, err := ParseEntry(test.line)
			if test.expectedError != nil {
				assert.ErrorIs(t, err, test.expectedError)
				assert.Equal(t, test.line, entry.Raw)
				return
			}

			require.NoError(t, err)
			assert.True(t, test.expectedEntry.Time.Equal(entry.Time))
			entry.Time = test.expectedEntry.Time
			assert.Equal(t, test.expectedEntry, entry)
		})
	}
}

func TestReadEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	content := "2025-05-20 10:00:05,000 INFO:taskprobe started\n" +
		"\n" +
		"garbage\r\n" +
		"2025-05-20 10:00:05,001 INFO:started without arguments\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Line)
	assert.False(t, entries[0].Malformed)
	assert.Equal(t, "taskprobe started", entries[0].Message)

	assert.Equal(t, 3, entries[1].Line)
	assert.True(t, entries[1].Malformed)
	assert.Equal(t, "garbage", entries[1].Raw)

	assert.Equal(t, 4, entries[2].Line)
	assert.Equal(t, "started without arguments", entries[2].Message)
}

func TestReadEntriesLongLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	longMessage := strings.Repeat("x", 3*1024*1024)
	content := "2025-05-20 10:00:05,000 INFO:taskprobe started\n" +
		"2025-05-20 10:00:05,000 INFO:" + longMessage + "\n" +
		longMessage + "\n" +
		"2025-05-20 10:00:05,001 INFO:started without arguments"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.False(t, entries[1].Malformed)
	assert.Equal(t, longMessage, entries[1].Message)
	assert.True(t, entries[2].Malformed)
	assert.Equal(t, 3, entries[2].Line)
	assert.False(t, entries[3].Malformed, "last line without newline is read")
	assert.Equal(t, "started without arguments", entries[3].Message)
}

func TestReadEntriesMissingFile(t *testing.T) {
	t.Parallel()

	entries, err := ReadEntries(filepath.Join(t.TempDir(), FileName))
	assert.Nil(t, entries)
	assert.ErrorIs(t, err, ErrJournal)
	assert.ErrorIs(t, err, syscall.ENOENT)
}
