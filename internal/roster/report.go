// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package roster

import "fmt"

// SkipReason says why a data row was rejected. A skipped row never aborts
// the run; it is counted and reported.
type SkipReason string

const (
	SkipBlank           SkipReason = "blank_row"
	SkipNoMarker        SkipReason = "not_a_user_row"
	SkipInvalidUsername SkipReason = "invalid_username"
	SkipEmptyPassword   SkipReason = "empty_password"
)

// SkippedRow records one rejected data row. Line is 1-based over the whole
// input, header included.
type SkippedRow struct {
	Line   int
	Reason SkipReason
	Detail string
}

// TokenIssue records a non-empty assignment cell that matched neither the
// truthy nor the falsey vocabulary. The cell is treated as absent.
type TokenIssue struct {
	Line     int
	Resource string
	Value    string
}

// KeyIssue records key material that does not parse as an SSH public key.
// The row is still accepted; provisioning can set the password regardless.
type KeyIssue struct {
	Line     int
	Username string
	Err      string
}

// KeyInfo records the shape of an accepted SSH key so provisioning knows
// what it is about to install without re-parsing the material.
type KeyInfo struct {
	Line      int
	Username  string
	Algorithm string
	Comment   string
}

// Report carries every recoverable finding of one extraction run. It is
// created per invocation and never shared, so concurrent runs on
// independent documents do not interfere.
type Report struct {
	TotalRows int
	ValidRows int

	Skipped                  []SkippedRow
	UnrecognizedTokens       []TokenIssue
	KeyIssues                []KeyIssue
	Keys                     []KeyInfo
	DuplicateResourceColumns []string
	UsersWithoutAssignments  []string
	ResourcesWithoutUsers    []string
}

func (r *Report) skip(line int, reason SkipReason, detail string) {
	r.Skipped = append(r.Skipped, SkippedRow{Line: line, Reason: reason, Detail: detail})
}

// SkippedCount returns the number of rejected data rows.
func (r *Report) SkippedCount() int { return len(r.Skipped) }

// Warnings flattens the recoverable findings into printable lines.
func (r *Report) Warnings() []string {
	var out []string
	for _, s := range r.Skipped {
		out = append(out, fmt.Sprintf("line %d: skipped (%s) %s", s.Line, s.Reason, s.Detail))
	}
	for _, tok := range r.UnrecognizedTokens {
		out = append(out, fmt.Sprintf("line %d: unrecognized flag %q for server %s (treated as absent)", tok.Line, tok.Value, tok.Resource))
	}
	for _, k := range r.KeyIssues {
		out = append(out, fmt.Sprintf("line %d: ssh key for %s does not parse: %s", k.Line, k.Username, k.Err))
	}
	for _, d := range r.DuplicateResourceColumns {
		out = append(out, fmt.Sprintf("duplicate server column %s (first kept)", d))
	}
	for _, u := range r.UsersWithoutAssignments {
		out = append(out, fmt.Sprintf("user %s has no server assignments", u))
	}
	for _, res := range r.ResourcesWithoutUsers {
		out = append(out, fmt.Sprintf("server %s has no assigned users", res))
	}
	return out
}
