// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package main

import (
	"context"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/mia-platform/taskprobe/internal/info"
	"github.com/mia-platform/taskprobe/internal/logger"
	"github.com/mia-platform/taskprobe/internal/probe"
)

var (
	appName = info.AppName

	// logPathGetter can be overridden for testing purposes.
	logPathGetter = probe.ExecutableLogPath
)

const (
	appShort = "taskprobe records every invocation in the task log placed next to its executable"
	appLong  = `taskprobe records every invocation in the task log placed next to its executable.
	It is meant to be launched by a task scheduler to check that processes are
	started with the expected arguments. Each run appends a startup marker and the
	list of received arguments to task.log, then prints a summary line.

	Every argument is recorded verbatim: flags are not interpreted.`

	appExample = `# Record a run without arguments
	taskprobe

	# Record a run with arguments
	taskprobe --name python5s`

	// argsTerminator is prepended to the process arguments so that none of them
	// can be mistaken for a cobra internal command.
	argsTerminator = "--"
)

func main() {
	cmd := rootCmd()
	cmd.SetArgs(commandArgs(os.Args[1:]))
	log := logger.NewLogger(cmd.OutOrStderr())
	ctx := logger.WithContext(context.Background(), log)

	exitCode := 0
	if err := cmd.ExecuteContext(ctx); err != nil {
		exitCode = 1
	}

	os.Exit(exitCode)
}

// commandArgs returns the arguments to set on the root command for the process arguments.
func commandArgs(processArgs []string) []string {
	return append([]string{argsTerminator}, processArgs...)
}

// rootCmd constructs the root Cobra command recording the invocation.
func rootCmd() *cobra.Command {
	return &cobra.Command{
		Use:     appName + " [ARGUMENTS...]",
		Short:   heredoc.Doc(appShort),
		Long:    heredoc.Doc(appLong),
		Example: heredoc.Doc(appExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		ValidArgsFunction:  cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.FromContext(cmd.Context())
			if len(args) > 0 && args[0] == argsTerminator {
				args = args[1:]
			}

			logPath, err := logPathGetter()
			if err != nil {
				log.Error("cannot locate task log", "error", err.Error())
				return err
			}

			err = probe.Run(cmd.Context(), probe.Options{
				Args:    args,
				LogPath: logPath,
				Stdout:  cmd.OutOrStdout(),
			})
			if err != nil {
				log.Error("cannot record invocation", "path", logPath, "error", err.Error())
				return err
			}

			return nil
		},
	}
}
