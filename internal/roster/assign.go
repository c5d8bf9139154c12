// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package roster

import "strings"

// isTruthy reports whether an assignment cell grants access. The
// vocabulary is closed; anything else means absent.
func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// isFalsey reports whether a cell is an explicit or empty denial. Cells
// that are neither truthy nor falsey get reported as unrecognized.
func isFalsey(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "0", "no":
		return true
	}
	return false
}

// MapAssignments evaluates the row's flag cells against the schema's
// server columns and returns the granted server addresses in
// column-declaration order. Unrecognized tokens are treated as absent and
// recorded in the report.
func MapAssignments(fields []string, s Schema, line int, rep *Report) []string {
	var granted []string
	for _, rc := range s.Resources {
		v := fieldAt(fields, rc.Index)
		if isTruthy(v) {
			granted = append(granted, rc.ID)
			continue
		}
		if !isFalsey(v) && rep != nil {
			rep.UnrecognizedTokens = append(rep.UnrecognizedTokens, TokenIssue{Line: line, Resource: rc.ID, Value: v})
		}
	}
	return granted
}
