// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

// Package export renders, archives and validates normalized roster
// documents.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/rostermaster/internal/model"
)

// Marshal renders the document as indented JSON.
func Marshal(doc *model.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Write renders the document as indented JSON to w.
func Write(doc *model.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// Read parses a JSON document previously produced by Write.
func Read(r io.Reader) (*model.Document, error) {
	var doc model.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// WriteArchive writes the document as zstd-compressed JSON, the artifact
// shape shipped to provisioning hosts.
func WriteArchive(doc *model.Document, w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	defer func() { _ = zw.Close() }()
	if err := Write(doc, zw); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}
	return nil
}

// ReadArchive reads a zstd-compressed JSON document and re-validates it;
// an artifact that fails validation is never treated as authoritative.
func ReadArchive(r io.Reader) (*model.Document, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	doc, err := Read(zr)
	if err != nil {
		return nil, err
	}
	if _, err := Validate(doc); err != nil {
		return nil, fmt.Errorf("archive failed validation: %w", err)
	}
	return doc, nil
}
