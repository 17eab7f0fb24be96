// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package invocation holds the record of a single probe run and the text
// renderings written to the task log and to the console.
// The same renderings are parsed back when task logs are inspected.
package invocation
