// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTime() time.Time {
	return time.Date(2025, time.May, 20, 10, 0, 5, 123_000_000, time.Local)
}

func TestRecordLogger(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	logger := NewRecordLogger(buffer, fixedTime)

	logger.Info("taskprobe started")
	logger.Debug("silenced log line for DEBUG level")
	logger.WithName("named").Warn("named logger shares the output")
	logger.Error("failure", "path", "/tmp/task.log")

	logger.SetLevel(DEBUG)
	logger.Debug("visible debug line")

	logger.SetLevel(ERROR)
	logger.Info("silenced log line for INFO level")

	expected := strings.Join([]string{
		"2025-05-20 10:00:05,123 INFO:taskprobe started",
		"2025-05-20 10:00:05,123 WARN:named logger shares the output",
		"2025-05-20 10:00:05,123 ERROR:failure path=/tmp/task.log",
		"2025-05-20 10:00:05,123 DEBUG:visible debug line",
		"",
	}, "\n")
	assert.Equal(t, expected, buffer.String())
}

type countingWriter struct {
	writes []string
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

func TestRecordLoggerWritesOneRecordPerCall(t *testing.T) {
	t.Parallel()

	writer := &countingWriter{}
	logger := NewRecordLogger(writer, fixedTime)

	logger.Info("first")
	logger.Info("second", "key", "value")

	require.Len(t, writer.writes, 2)
	assert.Equal(t, "2025-05-20 10:00:05,123 INFO:first\n", writer.writes[0])
	assert.Equal(t, "2025-05-20 10:00:05,123 INFO:second key=value\n", writer.writes[1])
}

func TestRecordLoggerDefaultClock(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	logger := NewRecordLogger(buffer, nil)

	before := time.Now().Truncate(time.Millisecond)
	logger.Info("now")

	line := strings.TrimSuffix(buffer.String(), "\n")
	require.Greater(t, len(line), len(RecordTimeFormat))
	stamp, err := time.ParseInLocation(RecordTimeFormat, line[:len(RecordTimeFormat)], time.Local)
	require.NoError(t, err)
	assert.False(t, stamp.Before(before))
	assert.Equal(t, " INFO:now", line[len(RecordTimeFormat):])
}
