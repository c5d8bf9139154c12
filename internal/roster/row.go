// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package roster

import (
	"regexp"
	"strings"
)

// usernamePattern is the allowed shape of an extracted username, matching
// what useradd accepts on the target hosts.
var usernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)

// Row is one accepted roster row: the credentials plus the servers whose
// flag columns were set, in column-declaration order.
type Row struct {
	Username  string
	Password  string
	SSHKey    string
	Resources []string
}

// fieldAt returns the trimmed field at idx, or "" when the row is too short.
func fieldAt(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

func isBlankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ExtractRow classifies one tokenized data row against the schema and, for
// user rows, pulls out the credentials. The boolean reports acceptance;
// rejected rows carry the skip reason. Assignment flags are mapped
// separately by MapAssignments.
func ExtractRow(fields []string, s Schema) (Row, SkipReason, bool) {
	if isBlankRow(fields) {
		return Row{}, SkipBlank, false
	}

	username := fieldAt(fields, s.Username.Index)
	if s.Format == FormatMatrix {
		// Only rows carrying the marker are user data; everything else in
		// a matrix export (group subtotals, notes) is skipped.
		if !strings.HasPrefix(username, UserMarker) {
			return Row{}, SkipNoMarker, false
		}
		username = strings.TrimSpace(strings.TrimPrefix(username, UserMarker))
	}

	if !usernamePattern.MatchString(username) {
		return Row{}, SkipInvalidUsername, false
	}

	password := fieldAt(fields, s.Password.Index)
	if password == "" {
		return Row{}, SkipEmptyPassword, false
	}

	return Row{
		Username: username,
		Password: password,
		SSHKey:   fieldAt(fields, s.SSHKey.Index),
	}, "", true
}
