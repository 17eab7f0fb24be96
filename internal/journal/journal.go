// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

const (
	// FileName is the name of the task log file.
	FileName = "task.log"

	fileMode = 0o644
)

var (
	// ErrJournal wraps every failure to open, lock or write the task log.
	ErrJournal = errors.New("task log")

	errClosed = errors.New("journal already closed")
)

var _ io.WriteCloser = &Journal{}

// Journal is an open task log. Every Write call appends exactly the given bytes.
type Journal struct {
	path  string
	file  *os.File
	flock *flock.Flock

	lock   sync.Mutex
	err    error
	closed bool
}

// Open opens path for appending, creating the file if it does not exist.
func Open(path string) (*Journal, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJournal, err)
	}

	file, err := os.OpenFile(absPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJournal, err)
	}

	return &Journal{
		path:  absPath,
		file:  file,
		flock: flock.New(absPath),
	}, nil
}

// Path returns the absolute path of the task log.
func (j *Journal) Path() string {
	return j.path
}

// Lock acquires the exclusive cross-process lock guarding the task log.
// The lock is taken on the task log itself, so no other file is created next to it.
// It blocks until the lock is available.
func (j *Journal) Lock() error {
	if err := j.flock.Lock(); err != nil {
		return fmt.Errorf("%w: lock %s: %w", ErrJournal, j.flock.Path(), err)
	}

	return nil
}

// Unlock releases the cross-process lock. It is safe to call without holding it.
func (j *Journal) Unlock() error {
	if !j.flock.Locked() {
		return nil
	}

	if err := j.flock.Unlock(); err != nil {
		return fmt.Errorf("%w: unlock %s: %w", ErrJournal, j.flock.Path(), err)
	}

	return nil
}

// Write appends p to the task log. The first failure is kept and returned by
// every following call, by Err and by Close.
func (j *Journal) Write(p []byte) (int, error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	if j.err != nil {
		return 0, j.err
	}
	if j.closed {
		j.err = fmt.Errorf("%w: %w", ErrJournal, errClosed)
		return 0, j.err
	}

	n, err := j.file.Write(p)
	if err != nil {
		j.err = fmt.Errorf("%w: %w", ErrJournal, err)
	}

	return n, j.err
}

// Err returns the first write failure, if any.
func (j *Journal) Err() error {
	j.lock.Lock()
	defer j.lock.Unlock()

	return j.err
}

// Close releases the lock and closes the file. It returns the first write
// failure if one happened, otherwise the close error.
func (j *Journal) Close() error {
	j.lock.Lock()
	defer j.lock.Unlock()

	if j.closed {
		return j.err
	}
	j.closed = true

	unlockErr := j.Unlock()
	closeErr := j.file.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("%w: %w", ErrJournal, closeErr)
	}

	if j.err != nil {
		return j.err
	}

	return errors.Join(unlockErr, closeErr)
}
