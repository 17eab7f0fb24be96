// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger wraps the underlying logging stack behind a consistent interface.
// It provides the JSON diagnostic logger, the plain text record logger used to
// append to task logs, and makes loggers available through context helpers.
package logger
