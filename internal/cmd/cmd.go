// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	showCmdUsage = "show"
	showCmdShort = "print the probe runs recorded in the task log"
	showCmdLong  = `Print the probe runs recorded in the task log.
	Every run of the probe appends a startup marker and the description of its
	arguments; this command pairs them back and prints one line per run.

	The task log is looked up, in order, from the --file flag, the TASKLOG_FILE
	environment variable and the task.log file next to this executable.`

	showCmdExample = `# Print the last 20 runs
	tasklog show

	# Print every run of a specific task log as yaml
	tasklog show --file /opt/probe/task.log --lines 0 --output yaml`

	verifyCmdUsage = "verify"
	verifyCmdShort = "check that every probe run left a complete record"
	verifyCmdLong  = `Check that every probe run left a complete record.
	A run is complete when its startup marker is immediately followed by the
	description of its arguments. Lines that break this layout are printed on
	the error stream and the command exits with a non zero code.`

	verifyCmdExample = `# Verify the task log next to the executable
	tasklog verify`
)

// ShowCmd returns the Cobra command that prints the recorded runs.
func ShowCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     showCmdUsage,
		Short:   heredoc.Doc(showCmdShort),
		Long:    heredoc.Doc(showCmdLong),
		Example: heredoc.Doc(showCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              noArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.executeShow(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	flags.addOutputFlags(cmd)
	return cmd
}

// VerifyCmd returns the Cobra command that checks the task log layout.
func VerifyCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     verifyCmdUsage,
		Short:   heredoc.Doc(verifyCmdShort),
		Long:    heredoc.Doc(verifyCmdLong),
		Example: heredoc.Doc(verifyCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              noArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.executeVerify(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
