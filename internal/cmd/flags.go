// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

const (
	fileFlagName  = "file"
	fileFlagShort = "f"
	fileFlagUsage = "Path to the task log. Defaults to TASKLOG_FILE or the task.log file next to the executable."

	linesFlagName    = "lines"
	linesFlagShort   = "n"
	linesFlagUsage   = "Number of most recent runs to print, 0 prints every run"
	defaultLinesFlag = 20

	outputFlagName  = "output"
	outputFlagShort = "o"
	outputFlagUsage = "Output format, one of: text, json, yaml"
)

// flags collects the CLI options shared by the show and verify commands.
type flags struct {
	file   string
	lines  int
	output string
}

// addFlags registers the CLI flags on cmd.
func (f *flags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, fileFlagName, fileFlagShort, "", fileFlagUsage)
}

// addOutputFlags registers the flags controlling what is printed and how.
func (f *flags) addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.lines, linesFlagName, linesFlagShort, defaultLinesFlag, linesFlagUsage)
	cmd.Flags().StringVarP(&f.output, outputFlagName, outputFlagShort, outputText, outputFlagUsage)
	_ = cmd.RegisterFlagCompletionFunc(outputFlagName, cobra.FixedCompletions(availableOutputs, cobra.ShellCompDirectiveNoFileComp))
}

// toOptions builds an options instance from the parsed flags.
func (f *flags) toOptions(cmd *cobra.Command) (*options, error) {
	logPath, err := logPathGetter(f.file)
	if err != nil {
		return nil, err
	}

	return &options{
		logPath: logPath,
		lines:   f.lines,
		output:  strings.ToLower(f.output),
		stdout:  cmd.OutOrStdout(),
		stderr:  cmd.ErrOrStderr(),
	}, nil
}
