// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toeirei/rostermaster/internal/export"
	"github.com/toeirei/rostermaster/internal/i18n"
	"github.com/toeirei/rostermaster/internal/model"
)

// readDataset loads a dataset file, transparently handling the
// zstd-compressed artifact form by file extension.
func readDataset(path string) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.HasSuffix(path, ".zst") || strings.HasSuffix(path, ".zstd") {
		return export.ReadArchive(f)
	}
	return export.Read(f)
}

// newValidateCmd builds the 'validate' command: re-run validation on a
// previously written dataset before it is trusted by provisioning.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dataset.json]",
		Short: "Validate a previously extracted dataset",
		Long: `Re-checks a dataset artifact: structural well-formedness, referential
symmetry between users and the server index, and the no-empty-password
rule. Warnings are printed but do not fail validation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			fmt.Println(i18n.T("validate.start", path))

			doc, err := readDataset(path)
			if err != nil {
				return fmt.Errorf("%s", i18n.T("validate.error_parse", err))
			}
			res, err := export.Validate(doc)
			if err != nil {
				return fmt.Errorf("%s", i18n.T("validate.failed", err))
			}
			for _, w := range res.Warnings {
				fmt.Println(i18n.T("validate.warning", w))
			}
			fmt.Println(i18n.T("validate.ok", len(doc.Users), len(doc.ResourceIndex)))
			return nil
		},
	}
}
