// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mia-platform/taskprobe/internal/config"
	"github.com/mia-platform/taskprobe/internal/probe"
)

var (
	errInvalidOutput = errors.New("invalid output format")
	errInvalidLines  = errors.New("invalid number of runs")
	errAnomalies     = errors.New("task log has anomalies")

	// logPathGetter returns the task log path to read given the --file flag value.
	// It can be overridden for testing purposes.
	logPathGetter = resolveLogPath
)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errAnomalies):
		// anomalies are already printed line by line
		return err
	case errors.Is(err, errInvalidOutput), errors.Is(err, errInvalidLines):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

// noArgs rejects positional arguments printing the error and the usage.
func noArgs(cmd *cobra.Command, args []string) error {
	err := cobra.NoArgs(cmd, args)
	if err != nil {
		cmd.PrintErrln(err)
		_ = cmd.Usage()
	}

	return err
}

// resolveLogPath picks the task log from the flag, the environment or the
// executable location, in this order.
func resolveLogPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", err
	}

	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}

	return probe.ExecutableLogPath()
}
