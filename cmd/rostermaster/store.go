// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/rostermaster/internal/db"
	"github.com/toeirei/rostermaster/internal/export"
	"github.com/toeirei/rostermaster/internal/i18n"
)

// initInventory opens the inventory database from the active config.
// Only the commands that touch the inventory call this.
func initInventory() error {
	if db.IsInitialized() {
		return nil
	}
	dbType := viper.GetString("database.type")
	dsn := viper.GetString("database.dsn")
	if err := db.InitDB(dbType, dsn); err != nil {
		return fmt.Errorf("%s", i18n.T("config.error_init_db", err))
	}
	return nil
}

// newStoreCmd builds the 'store' command: persist a validated dataset
// into the inventory database.
func newStoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store [dataset.json]",
		Short: "Store a dataset in the inventory database",
		Long: `Validates a dataset artifact and stores it as a new import run in the
inventory database. The stored run preserves the dataset's user and
assignment order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDataset(args[0])
			if err != nil {
				return fmt.Errorf("%s", i18n.T("store.error_read", err))
			}
			if _, err := export.Validate(doc); err != nil {
				return fmt.Errorf("%s", i18n.T("validate.failed", err))
			}
			if err := initInventory(); err != nil {
				return err
			}
			runID, err := db.SaveDocument(doc)
			if err != nil {
				return fmt.Errorf("%s", i18n.T("store.error_save", err))
			}
			fmt.Println(i18n.T("store.saved", runID, len(doc.Users)))
			return nil
		},
	}
}

// newServersCmd builds the 'servers' command: inspect the latest stored
// run, either all servers or the users assigned to one server.
func newServersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "servers [address]",
		Short: "List servers (or one server's users) from the latest stored run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initInventory(); err != nil {
				return err
			}
			run, err := db.GetLatestRun()
			if err != nil {
				return fmt.Errorf("%s", i18n.T("servers.error", err))
			}
			if run == nil {
				fmt.Println(i18n.T("servers.no_runs"))
				return nil
			}

			if len(args) == 1 {
				addr := args[0]
				users, err := db.GetUsersForServer(run.ID, addr)
				if err != nil {
					return fmt.Errorf("%s", i18n.T("servers.error", err))
				}
				if len(users) == 0 {
					fmt.Println(i18n.T("servers.unknown", addr))
					return nil
				}
				fmt.Println(i18n.T("servers.users_header", addr, run.ID))
				for _, u := range users {
					fmt.Println("  " + u)
				}
				return nil
			}

			servers, err := db.ListServers(run.ID)
			if err != nil {
				return fmt.Errorf("%s", i18n.T("servers.error", err))
			}
			fmt.Println(i18n.T("servers.header", run.ID))
			for _, addr := range servers {
				users, err := db.GetUsersForServer(run.ID, addr)
				if err != nil {
					return fmt.Errorf("%s", i18n.T("servers.error", err))
				}
				fmt.Println(i18n.T("servers.entry", addr, len(users)))
			}
			return nil
		},
	}
}
