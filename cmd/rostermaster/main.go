// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for rostermaster using the
// Cobra library: the root command, the extract/validate/store/servers
// subcommands, flags, and the entry point.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/rostermaster/internal/config"
	"github.com/toeirei/rostermaster/internal/i18n"
	"github.com/toeirei/rostermaster/internal/logging"
)

var version = "dev" // this will be set by the linker
var cfgFile string

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	config.SetDefaults()
}

// newRootCmd creates and configures a new root cobra command. Fresh
// instances are also used for isolated testing.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rostermaster",
		Short: "Rostermaster turns roster spreadsheets into provisioning data.",
		Long: `Rostermaster converts a human-maintained roster export (CSV) into a
normalized credential dataset: users with passwords and SSH keys, plus a
bidirectional index of which user gets an account on which server. The
dataset drives Linux account and SSH provisioning and can be stored in an
inventory database as the source of truth.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetDebug(viper.GetBool("debug"))
			i18n.SetLang(viper.GetString("language"))
			logging.Debugf("language: %s", i18n.GetLang())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No interactive surface; running bare shows usage.
			return cmd.Help()
		},
	}

	cmd.AddCommand(newExtractCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newStoreCmd())
	cmd.AddCommand(newServersCmd())

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rostermaster.yaml or ./.rostermaster.yaml)")
	cmd.PersistentFlags().String("db-type", "sqlite", "Inventory database type (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "./rostermaster.db", "Inventory database connection string (DSN)")
	cmd.PersistentFlags().String("lang", "en", `Output language ("en", "de")`)
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	_ = viper.BindPFlag("database.type", cmd.PersistentFlags().Lookup("db-type"))
	_ = viper.BindPFlag("database.dsn", cmd.PersistentFlags().Lookup("db-dsn"))
	_ = viper.BindPFlag("language", cmd.PersistentFlags().Lookup("lang"))
	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))

	return cmd
}

// initConfig reads the configuration file and environment variables, and
// writes a default config on first run so settings stay discoverable.
func initConfig() {
	created, err := config.Load(cfgFile)
	if err != nil {
		logging.Errorf("config: %v", err)
		return
	}
	if created != "" {
		fmt.Println(i18n.T("config.created_default", created))
	}
}
