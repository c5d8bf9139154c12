// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package roster

import (
	"regexp"
	"strings"

	"github.com/toeirei/rostermaster/internal/model"
)

// Format identifies the header shape of a roster export.
type Format int

const (
	// FormatAuto lets the detector decide between legacy and matrix.
	FormatAuto Format = iota
	// FormatLegacy is a single header row naming the credential columns,
	// with no per-server columns.
	FormatLegacy
	// FormatMatrix is a three-row header block; row 3 carries the
	// machine-readable server columns and data rows carry the "User "
	// marker in front of the username.
	FormatMatrix
)

// String returns the format name used in document metadata.
func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatMatrix:
		return "matrix"
	default:
		return "auto"
	}
}

// ParseFormat maps a format name from flags/config to a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, true
	case "legacy":
		return FormatLegacy, true
	case "matrix":
		return FormatMatrix, true
	}
	return FormatAuto, false
}

const (
	// ResourcePrefix marks a machine-readable server column in header row 3,
	// e.g. "SERVER_10.0.0.5".
	ResourcePrefix = "SERVER_"
	// UserMarker prefixes the username cell of matrix-format data rows.
	UserMarker = "User "
)

// Default column positions used when a role is not found in the header.
const (
	defaultUsernameIndex = 0
	defaultPasswordIndex = 1
	defaultSSHKeyIndex   = 2
)

// RolePosition is the detection result for one semantic column: the index
// the extractor will use, and whether the header actually named it or the
// default position was assumed.
type RolePosition struct {
	Index    int
	Detected bool
}

// ResourceColumn ties a server address to the header column carrying its
// assignment flags.
type ResourceColumn struct {
	ID    string
	Index int
}

// Schema is the detected column layout of one roster document. It is
// computed once per document and not modified afterwards.
type Schema struct {
	Format     Format
	Username   RolePosition
	Password   RolePosition
	SSHKey     RolePosition
	Resources  []ResourceColumn
	HeaderRows int
	// DuplicateResources lists server addresses that appeared in more than
	// one header column; only the first column is kept.
	DuplicateResources []string
}

// roleRules is the ordered list of header-name predicates. Rules are
// evaluated in order and each rule claims the first unclaimed column it
// matches, so "key" can never steal the username column.
var roleRules = []struct {
	aliases []string
	assign  func(s *Schema, idx int)
}{
	{
		aliases: []string{"user", "username", "login", "name"},
		assign:  func(s *Schema, idx int) { s.Username = RolePosition{Index: idx, Detected: true} },
	},
	{
		aliases: []string{"password", "pass", "pw"},
		assign:  func(s *Schema, idx int) { s.Password = RolePosition{Index: idx, Detected: true} },
	},
	{
		aliases: []string{"ssh_key", "ssh-key", "sshkey", "ssh key", "key", "pubkey", "public_key"},
		assign:  func(s *Schema, idx int) { s.SSHKey = RolePosition{Index: idx, Detected: true} },
	},
}

var dottedQuadRe = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

// ParseResourceID reports whether a header cell names a server column and
// returns the address after the prefix.
func ParseResourceID(cell string) (string, bool) {
	cell = strings.TrimSpace(cell)
	if !strings.HasPrefix(cell, ResourcePrefix) {
		return "", false
	}
	addr := strings.TrimPrefix(cell, ResourcePrefix)
	if !dottedQuadRe.MatchString(addr) {
		return "", false
	}
	return addr, true
}

// DetectFormat inspects the header block and decides between the legacy
// and matrix shapes: any server column in row 3 means matrix.
func DetectFormat(block [][]string) Format {
	if len(block) >= 3 {
		for _, cell := range block[2] {
			if _, ok := ParseResourceID(cell); ok {
				return FormatMatrix
			}
		}
	}
	return FormatLegacy
}

// DetectSchema resolves the column layout from the header block. Undetected
// roles fall back to their default positions and stay flagged undetected;
// detection failure is never fatal. Zero server columns is a valid outcome.
func DetectSchema(block [][]string, format Format) Schema {
	if format == FormatAuto {
		format = DetectFormat(block)
	}
	s := Schema{
		Format:     format,
		Username:   RolePosition{Index: defaultUsernameIndex},
		Password:   RolePosition{Index: defaultPasswordIndex},
		SSHKey:     RolePosition{Index: defaultSSHKeyIndex},
		HeaderRows: 1,
	}

	var header []string
	if len(block) > 0 {
		header = block[0]
	}
	claimed := make(map[int]bool)
	for _, rule := range roleRules {
		for idx, cell := range header {
			if claimed[idx] {
				continue
			}
			norm := strings.ToLower(strings.TrimSpace(cell))
			for _, alias := range rule.aliases {
				if norm == alias {
					rule.assign(&s, idx)
					claimed[idx] = true
					break
				}
			}
			if claimed[idx] {
				break
			}
		}
	}

	if format == FormatMatrix {
		s.HeaderRows = 3
		if len(block) >= 3 {
			seen := make(map[string]bool)
			for idx, cell := range block[2] {
				addr, ok := ParseResourceID(cell)
				if !ok {
					continue
				}
				if seen[addr] {
					s.DuplicateResources = append(s.DuplicateResources, addr)
					continue
				}
				seen[addr] = true
				s.Resources = append(s.Resources, ResourceColumn{ID: addr, Index: idx})
			}
		}
	}
	return s
}

// Detection converts the schema into the metadata form carried by the
// output document.
func (s Schema) Detection() model.ColumnDetection {
	return model.ColumnDetection{
		UsernameDetected: s.Username.Detected,
		UsernameIndex:    s.Username.Index,
		PasswordDetected: s.Password.Detected,
		PasswordIndex:    s.Password.Index,
		SSHKeyDetected:   s.SSHKey.Detected,
		SSHKeyIndex:      s.SSHKey.Index,
		ResourceColumns:  len(s.Resources),
	}
}
