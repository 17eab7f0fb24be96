// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/taskprobe/internal/config"
	"github.com/mia-platform/taskprobe/internal/journal"
)

// Environment changes prevent these tests from running in parallel.
func TestResolveLogPath(t *testing.T) {
	t.Run("flag wins over environment", func(t *testing.T) {
		t.Setenv("TASKLOG_FILE", "/from/env/task.log")
		path, err := resolveLogPath("/from/flag/task.log")
		require.NoError(t, err)
		assert.Equal(t, "/from/flag/task.log", path)
	})

	t.Run("environment wins over executable", func(t *testing.T) {
		t.Setenv("TASKLOG_FILE", "/from/env/task.log")
		path, err := resolveLogPath("")
		require.NoError(t, err)
		assert.Equal(t, "/from/env/task.log", path)
	})

	t.Run("executable directory as fallback", func(t *testing.T) {
		t.Setenv("TASKLOG_FILE", "")
		require.NoError(t, os.Unsetenv("TASKLOG_FILE"))

		path, err := resolveLogPath("")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(path))
		assert.Equal(t, journal.FileName, filepath.Base(path))
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Setenv("TASKLOG_LOG_LEVEL", "VERBOSE")
		_, err := resolveLogPath("")
		assert.ErrorIs(t, err, config.ErrEnvVariablesNotValid)
	})
}
