// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"
)

// RecordTimeFormat is the timestamp layout of every plain text record.
const RecordTimeFormat = "2006-01-02 15:04:05,000"

var _ hclog.SinkAdapter = &recordSink{}

// recordSink renders hclog messages as "<timestamp> <LEVEL>:<message>" lines.
type recordSink struct {
	writer io.Writer
	timeFn func() time.Time
	level  atomic.Int32

	lock sync.Mutex
}

func newRecordSink(writer io.Writer, timeFn func() time.Time, level Level) *recordSink {
	sink := &recordSink{
		writer: writer,
		timeFn: timeFn,
	}
	sink.setLevel(level)
	return sink
}

func (s *recordSink) setLevel(level Level) {
	if level < ERROR || level > TRACE {
		level = INFO
	}
	s.level.Store(int32(level))
}

// Accept implements hclog.SinkAdapter.
func (s *recordSink) Accept(_ string, level hclog.Level, msg string, args ...interface{}) {
	recordLevel := levelFromHCLog(level)
	if recordLevel > Level(s.level.Load()) {
		return
	}

	builder := new(strings.Builder)
	builder.WriteString(s.timeFn().Format(RecordTimeFormat))
	builder.WriteString(" ")
	builder.WriteString(recordLevel.String())
	builder.WriteString(":")
	builder.WriteString(msg)
	for idx := 0; idx+1 < len(args); idx += 2 {
		fmt.Fprintf(builder, " %v=%v", args[idx], args[idx+1])
	}
	builder.WriteString("\n")

	s.lock.Lock()
	defer s.lock.Unlock()
	// write errors are tracked by the writer itself, the sink has no way to return them
	_, _ = io.WriteString(s.writer, builder.String())
}
