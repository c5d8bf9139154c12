// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/rostermaster/internal/export"
	"github.com/toeirei/rostermaster/internal/i18n"
	"github.com/toeirei/rostermaster/internal/logging"
	"github.com/toeirei/rostermaster/internal/roster"
)

// newExtractCmd builds the 'extract' command: run the extraction engine
// on one roster export and write the normalized dataset.
func newExtractCmd() *cobra.Command {
	var (
		output     string
		archive    string
		delimiter  string
		formatName string
		strictKeys bool
	)

	cmd := &cobra.Command{
		Use:   "extract [roster.csv]",
		Short: "Extract a normalized credential dataset from a roster export",
		Long: `Reads a roster CSV export, detects the header schema, and produces the
normalized JSON dataset consumed by the provisioning steps. Recoverable
problems (skipped rows, unrecognized flags, odd key material) are printed
as warnings; the run only fails on document-level errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := roster.Options{StrictKeys: strictKeys}

			if delimiter == "" {
				delimiter = viper.GetString("roster.delimiter")
			}
			runes := []rune(delimiter)
			if len(runes) != 1 {
				return fmt.Errorf("%s", i18n.T("extract.bad_delimiter", delimiter))
			}
			opts.Delimiter = runes[0]

			if formatName == "" {
				formatName = viper.GetString("roster.format")
			}
			format, ok := roster.ParseFormat(formatName)
			if !ok {
				return fmt.Errorf("%s", i18n.T("extract.bad_format", formatName))
			}
			opts.Format = format

			path := args[0]
			fmt.Println(i18n.T("extract.start", path))
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("%s", i18n.T("extract.error_opening_file", err))
			}
			defer f.Close()

			doc, rep, err := roster.Extract(f, opts)
			if rep != nil {
				for _, w := range rep.Warnings() {
					fmt.Println(i18n.T("extract.warning", w))
				}
				for _, k := range rep.Keys {
					logging.Debugf("line %d: %s key for %s (%s)", k.Line, k.Algorithm, k.Username, k.Comment)
				}
			}
			if err != nil {
				return fmt.Errorf("%s", i18n.T("extract.error_extract", err))
			}

			fmt.Println(i18n.T("extract.summary", rep.TotalRows, rep.ValidRows, rep.SkippedCount()))
			fmt.Println(i18n.T("extract.users_found", len(doc.Users), len(doc.ResourceIndex)))

			if res, err := export.Validate(doc); err != nil {
				return fmt.Errorf("%s", i18n.T("extract.error_validation", err))
			} else {
				for _, w := range res.Warnings {
					fmt.Println(i18n.T("extract.warning", w))
				}
			}

			if output != "" {
				out, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("%s", i18n.T("extract.error_write", err))
				}
				defer out.Close()
				if err := export.Write(doc, out); err != nil {
					return fmt.Errorf("%s", i18n.T("extract.error_write", err))
				}
				fmt.Println(i18n.T("extract.wrote_output", output))
			} else {
				if err := export.Write(doc, cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("%s", i18n.T("extract.error_write", err))
				}
			}

			if archive != "" {
				out, err := os.Create(archive)
				if err != nil {
					return fmt.Errorf("%s", i18n.T("extract.error_write", err))
				}
				defer out.Close()
				if err := export.WriteArchive(doc, out); err != nil {
					return fmt.Errorf("%s", i18n.T("extract.error_write", err))
				}
				fmt.Println(i18n.T("extract.wrote_archive", archive))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the JSON dataset to this file instead of stdout")
	cmd.Flags().StringVar(&archive, "archive", "", "Additionally write a zstd-compressed dataset artifact")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "Field delimiter (default from config, usually ',')")
	cmd.Flags().StringVar(&formatName, "format", "", "Roster format: auto, legacy or matrix")
	cmd.Flags().BoolVar(&strictKeys, "strict-keys", false, "Fail the run when SSH key material does not parse")

	return cmd
}
