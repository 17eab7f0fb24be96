// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package journal implements the append-only task log file.
// Writers open it in append mode and serialize their records across processes
// with a lock file placed next to it; readers parse it back into entries.
package journal
