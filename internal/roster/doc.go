// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

// Package roster turns a loosely structured roster spreadsheet export into
// a normalized credential dataset. The pipeline is strictly linear:
// tokenize each line, detect the header schema, classify and extract data
// rows, map per-server assignment flags, and aggregate everything into the
// users list and the server index. All counters and diagnostics live in a
// per-invocation Report so the package is safe for concurrent use on
// independent documents.
package roster
