// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package audit rebuilds probe runs from task log entries and reports the
// lines that break the two lines per run layout.
package audit

import (
	"cmp"
	"slices"
	"time"

	"github.com/mia-platform/taskprobe/internal/invocation"
	"github.com/mia-platform/taskprobe/internal/journal"
)

const (
	ReasonMalformed      = "line does not follow the record layout"
	ReasonUnknownMessage = "message was not written by the probe"
	ReasonOrphanArgs     = "arguments line without a startup marker"
	ReasonIncompleteRun  = "startup marker without an arguments line"
)

// Run is a probe execution recovered from the task log.
type Run struct {
	Started   time.Time `json:"started" yaml:"started"`
	Args      []string  `json:"args" yaml:"args"`
	HasArgs   bool      `json:"hasArgs" yaml:"hasArgs"`
	StartLine int       `json:"startLine" yaml:"startLine"`
	ArgsLine  int       `json:"argsLine" yaml:"argsLine"`
}

// Anomaly points at a task log line that does not fit in a complete run.
type Anomaly struct {
	Line   int    `json:"line" yaml:"line"`
	Reason string `json:"reason" yaml:"reason"`
	Raw    string `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Report is the outcome of walking a whole task log.
type Report struct {
	Runs      []Run     `json:"runs" yaml:"runs"`
	Anomalies []Anomaly `json:"anomalies" yaml:"anomalies"`
}

// Collect walks entries in order. A startup marker opens a run and the next
// arguments line closes it; everything else is reported as an anomaly.
func Collect(entries []journal.Entry) Report {
	report := Report{
		Runs:      make([]Run, 0),
		Anomalies: make([]Anomaly, 0),
	}

	var open *journal.Entry
	closeIncomplete := func() {
		if open != nil {
			report.Anomalies = append(report.Anomalies, anomaly(*open, ReasonIncompleteRun))
			open = nil
		}
	}

	for idx := range entries {
		entry := entries[idx]
		if entry.Malformed {
			report.Anomalies = append(report.Anomalies, anomaly(entry, ReasonMalformed))
			continue
		}

		args, kind, err := invocation.ParseMessage(entry.Message)
		if err != nil {
			report.Anomalies = append(report.Anomalies, anomaly(entry, ReasonUnknownMessage))
			continue
		}

		switch kind {
		case invocation.KindStartup:
			closeIncomplete()
			open = &entries[idx]
		case invocation.KindWithArguments, invocation.KindWithoutArguments:
			if open == nil {
				report.Anomalies = append(report.Anomalies, anomaly(entry, ReasonOrphanArgs))
				continue
			}

			report.Runs = append(report.Runs, Run{
				Started:   open.Time,
				Args:      args,
				HasArgs:   len(args) > 0,
				StartLine: open.Line,
				ArgsLine:  entry.Line,
			})
			open = nil
		}
	}
	closeIncomplete()

	slices.SortStableFunc(report.Anomalies, func(a, b Anomaly) int {
		return cmp.Compare(a.Line, b.Line)
	})
	return report
}

// Tail returns a copy of the report holding only the last n runs.
// Anomalies are kept untouched; n <= 0 keeps every run.
func (r Report) Tail(n int) Report {
	if n <= 0 || n >= len(r.Runs) {
		return r
	}

	return Report{
		Runs:      r.Runs[len(r.Runs)-n:],
		Anomalies: r.Anomalies,
	}
}

// Valid reports whether the task log had no anomaly.
func (r Report) Valid() bool {
	return len(r.Anomalies) == 0
}

func anomaly(entry journal.Entry, reason string) Anomaly {
	return Anomaly{
		Line:   entry.Line,
		Reason: reason,
		Raw:    entry.Raw,
	}
}
