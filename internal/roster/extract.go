// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package roster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/toeirei/rostermaster/internal/model"
	"github.com/toeirei/rostermaster/internal/sshkey"
)

// Options configure one extraction run.
type Options struct {
	// Delimiter is the field separator; ',' when zero.
	Delimiter rune
	// Format forces a header shape; FormatAuto detects it.
	Format Format
	// StrictKeys turns unparseable SSH key material into a run failure
	// instead of a warning.
	StrictKeys bool
}

var (
	// ErrEmptyInput is returned for an unreadable or empty document.
	ErrEmptyInput = errors.New("roster: empty input")
	// ErrNoValidRows is returned when no row survived classification.
	ErrNoValidRows = errors.New("roster: no valid rows extracted")
	// ErrInvalidKeys is returned in strict mode when key material did not
	// parse; the report lists the offending rows.
	ErrInvalidKeys = errors.New("roster: invalid ssh key material")
)

// timeNow is overridable in tests so metadata is deterministic.
var timeNow = time.Now

// Extract runs the full pipeline on one roster document and returns the
// normalized dataset plus the per-run report. A single bad row never fails
// the run; only document-level problems produce an error. On error the
// report is still returned so callers can explain what happened.
func Extract(r io.Reader, opts Options) (*model.Document, *Report, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}
	rep := &Report{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, rep, fmt.Errorf("read roster: %w", err)
	}
	if len(lines) == 0 {
		return nil, rep, ErrEmptyInput
	}

	headerLines := len(lines)
	if headerLines > 3 {
		headerLines = 3
	}
	block := make([][]string, 0, headerLines)
	for _, line := range lines[:headerLines] {
		block = append(block, SplitFields(line, delim))
	}
	schema := DetectSchema(block, opts.Format)
	rep.DuplicateResourceColumns = schema.DuplicateResources

	headerRows := schema.HeaderRows
	if headerRows > len(lines) {
		headerRows = len(lines)
	}

	var rows []Row
	for i := headerRows; i < len(lines); i++ {
		lineNo := i + 1
		fields := SplitFields(lines[i], delim)
		rep.TotalRows++

		row, reason, ok := ExtractRow(fields, schema)
		if !ok {
			rep.skip(lineNo, reason, fieldAt(fields, schema.Username.Index))
			continue
		}
		row.Resources = MapAssignments(fields, schema, lineNo, rep)

		if row.SSHKey != "" {
			if err := sshkey.Validate(row.SSHKey); err != nil {
				rep.KeyIssues = append(rep.KeyIssues, KeyIssue{Line: lineNo, Username: row.Username, Err: err.Error()})
			} else if alg, _, comment, perr := sshkey.Parse(row.SSHKey); perr == nil {
				rep.Keys = append(rep.Keys, KeyInfo{Line: lineNo, Username: row.Username, Algorithm: alg, Comment: comment})
			}
		}

		rep.ValidRows++
		rows = append(rows, row)
	}

	if rep.ValidRows == 0 {
		return nil, rep, ErrNoValidRows
	}
	if opts.StrictKeys && len(rep.KeyIssues) > 0 {
		return nil, rep, fmt.Errorf("%w (%d keys)", ErrInvalidKeys, len(rep.KeyIssues))
	}

	users, index := Aggregate(rows, schema, rep)
	doc := &model.Document{
		Metadata: model.Metadata{
			GeneratedAt:     timeNow().UTC().Format(time.RFC3339),
			Format:          schema.Format.String(),
			ColumnDetection: schema.Detection(),
			TotalRows:       rep.TotalRows,
			ValidRows:       rep.ValidRows,
			SkippedRows:     rep.SkippedCount(),
		},
		Users:         users,
		ResourceIndex: index,
	}
	return doc, rep, nil
}
