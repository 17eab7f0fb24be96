// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package probe records a single invocation of the probe binary.
// Every run appends a startup marker and a description of its arguments to
// the task log placed next to the executable, then prints a summary line.
package probe
