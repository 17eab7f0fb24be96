// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mia-platform/taskprobe/internal/audit"
	"github.com/mia-platform/taskprobe/internal/invocation"
	"github.com/mia-platform/taskprobe/internal/journal"
	"github.com/mia-platform/taskprobe/internal/logger"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"

	noArgumentsPlaceholder = "(no arguments)"
	loggerName             = "tasklog"
)

var availableOutputs = []string{outputText, outputJSON, outputYAML}

// options configures a single read of the task log.
type options struct {
	logPath string
	lines   int
	output  string

	stdout io.Writer
	stderr io.Writer
}

// validate checks the configured values and reports invalid setups.
func (o *options) validate() error {
	if !slices.Contains(availableOutputs, o.output) {
		return fmt.Errorf("%w: %q", errInvalidOutput, o.output)
	}

	if o.lines < 0 {
		return fmt.Errorf("%w: %d", errInvalidLines, o.lines)
	}

	return nil
}

// report reads the task log and groups its entries in runs.
func (o *options) report(ctx context.Context) (audit.Report, error) {
	log := logger.FromContext(ctx).WithName(loggerName)
	log.Debug("reading task log", "path", o.logPath)

	entries, err := journal.ReadEntries(o.logPath)
	if err != nil {
		return audit.Report{}, err
	}

	report := audit.Collect(entries)
	log.Debug("task log read", "entries", len(entries), "runs", len(report.Runs), "anomalies", len(report.Anomalies))
	return report, nil
}

// executeShow prints the most recent runs in the requested format.
func (o *options) executeShow(ctx context.Context) error {
	report, err := o.report(ctx)
	if err != nil {
		return err
	}

	if !report.Valid() {
		logger.FromContext(ctx).WithName(loggerName).Warn("task log contains anomalies, run verify for details", "anomalies", len(report.Anomalies))
	}

	report = report.Tail(o.lines)
	switch o.output {
	case outputJSON:
		encoder := json.NewEncoder(o.stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report.Runs)
	case outputYAML:
		encoder := yaml.NewEncoder(o.stdout)
		encoder.SetIndent(2)
		if err := encoder.Encode(report.Runs); err != nil {
			return err
		}
		return encoder.Close()
	default:
		builder := new(strings.Builder)
		for _, run := range report.Runs {
			builder.WriteString(formatRun(run))
			builder.WriteString("\n")
		}
		_, err := io.WriteString(o.stdout, builder.String())
		return err
	}
}

// executeVerify prints a summary of the task log and fails if anomalies are found.
func (o *options) executeVerify(ctx context.Context) error {
	report, err := o.report(ctx)
	if err != nil {
		return err
	}

	for _, anomaly := range report.Anomalies {
		fmt.Fprintf(o.stderr, "line %d: %s: %s\n", anomaly.Line, anomaly.Reason, anomaly.Raw)
	}
	fmt.Fprintf(o.stdout, "%d runs, %d anomalies\n", len(report.Runs), len(report.Anomalies))

	if !report.Valid() {
		return fmt.Errorf("%w: %s", errAnomalies, o.logPath)
	}

	return nil
}

// formatRun renders a run as "<timestamp>  <arguments>".
func formatRun(run audit.Run) string {
	args := noArgumentsPlaceholder
	if run.HasArgs {
		args = invocation.FormatArgs(run.Args)
	}

	return run.Started.Format(logger.RecordTimeFormat) + "  " + args
}
