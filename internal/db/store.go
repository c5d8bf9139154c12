// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"

	"github.com/toeirei/rostermaster/internal/model"
)

// Store is the inventory access interface. One extraction run is stored as
// an import_runs row plus its users, servers and assignments; ordering
// columns preserve the dataset's first-seen order.
type Store interface {
	// SaveDocument stores one accepted dataset transactionally and
	// returns the new run ID.
	SaveDocument(doc *model.Document) (int64, error)
	// GetLatestRun returns the most recent run, or nil when none exists.
	GetLatestRun() (*model.ImportRun, error)
	// GetRunUsers returns the run's users in stored order, assignments
	// included.
	GetRunUsers(runID int64) ([]model.User, error)
	// ListServers returns the run's server addresses in stored order.
	ListServers(runID int64) ([]string, error)
	// GetUsersForServer returns the usernames assigned to one server, in
	// assignment order.
	GetUsersForServer(runID int64, address string) ([]string, error)
	Close() error
}

// ErrNotInitialized is returned by the package helpers before InitDB.
var ErrNotInitialized = errors.New("db: store not initialized")

// SaveDocument stores a dataset via the package-level store.
func SaveDocument(doc *model.Document) (int64, error) {
	if store == nil {
		return 0, ErrNotInitialized
	}
	return store.SaveDocument(doc)
}

// GetLatestRun reads the most recent run via the package-level store.
func GetLatestRun() (*model.ImportRun, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store.GetLatestRun()
}

// GetRunUsers reads a run's users via the package-level store.
func GetRunUsers(runID int64) ([]model.User, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store.GetRunUsers(runID)
}

// ListServers reads a run's servers via the package-level store.
func ListServers(runID int64) ([]string, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store.ListServers(runID)
}

// GetUsersForServer reads one server's users via the package-level store.
func GetUsersForServer(runID int64, address string) ([]string, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store.GetUsersForServer(runID, address)
}
