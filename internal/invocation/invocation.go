// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package invocation

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	// StartupMessage marks the beginning of a probe run in the task log.
	StartupMessage = "taskprobe started"

	withArgumentsPrefix = "started with arguments: "
	withoutArguments    = "started without arguments"

	summaryPrefix  = "Arguments: "
	summaryNoArgs  = "No arguments"
	argsOpenToken  = "["
	argsCloseToken = "]"
)

var (
	// ErrMalformedArguments reports a rendered argument list that cannot be parsed back.
	ErrMalformedArguments = errors.New("malformed arguments")
	// ErrUnknownMessage reports a log message that was not produced by the probe.
	ErrUnknownMessage = errors.New("unknown message")
)

// Kind classifies a task log message.
type Kind int

const (
	KindUnknown Kind = iota
	KindStartup
	KindWithArguments
	KindWithoutArguments
)

// Record is the in-memory representation of one probe run.
type Record struct {
	Time time.Time
	Args []string
}

// New returns a Record for args captured at now. The arguments are copied.
func New(args []string, now time.Time) Record {
	return Record{
		Time: now,
		Args: slices.Clone(args),
	}
}

// HasArgs reports whether the run received at least one argument.
func (r Record) HasArgs() bool {
	return len(r.Args) > 0
}

// Message returns the task log message describing the run arguments.
func (r Record) Message() string {
	if !r.HasArgs() {
		return withoutArguments
	}

	return withArgumentsPrefix + FormatArgs(r.Args)
}

// Summary returns the console line describing the run arguments.
func (r Record) Summary() string {
	if !r.HasArgs() {
		return summaryNoArgs
	}

	return summaryPrefix + FormatArgs(r.Args)
}

// FormatArgs renders args as a bracketed list of Go quoted strings separated by a space.
func FormatArgs(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		quoted = append(quoted, strconv.Quote(arg))
	}

	return argsOpenToken + strings.Join(quoted, " ") + argsCloseToken
}

// ParseArgs is the inverse of FormatArgs.
func ParseArgs(rendered string) ([]string, error) {
	inner, ok := strings.CutPrefix(rendered, argsOpenToken)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedArguments, argsOpenToken)
	}
	inner, ok = strings.CutSuffix(inner, argsCloseToken)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedArguments, argsCloseToken)
	}

	args := make([]string, 0)
	for inner != "" {
		if len(args) > 0 {
			var found bool
			if inner, found = strings.CutPrefix(inner, " "); !found {
				return nil, fmt.Errorf("%w: missing separator before %q", ErrMalformedArguments, inner)
			}
		}

		quoted, err := strconv.QuotedPrefix(inner)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedArguments, inner)
		}

		arg, err := strconv.Unquote(quoted)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedArguments, quoted)
		}

		args = append(args, arg)
		inner = inner[len(quoted):]
	}

	return args, nil
}

// ParseMessage classifies a task log message and returns the arguments it carries.
func ParseMessage(msg string) ([]string, Kind, error) {
	switch {
	case msg == StartupMessage:
		return nil, KindStartup, nil
	case msg == withoutArguments:
		return []string{}, KindWithoutArguments, nil
	case strings.HasPrefix(msg, withArgumentsPrefix):
		args, err := ParseArgs(strings.TrimPrefix(msg, withArgumentsPrefix))
		if err != nil {
			return nil, KindUnknown, err
		}
		return args, KindWithArguments, nil
	default:
		return nil, KindUnknown, fmt.Errorf("%w: %q", ErrUnknownMessage, msg)
	}
}
