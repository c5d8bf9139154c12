// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/toeirei/rostermaster/internal/model"
	"github.com/uptrace/bun"
)

// ImportRunModel maps the import_runs table for Bun queries.
type ImportRunModel struct {
	bun.BaseModel `bun:"table:import_runs"`
	ID            int64  `bun:"id,pk,autoincrement"`
	GeneratedAt   string `bun:"generated_at"`
	Format        string `bun:"format"`
	TotalRows     int    `bun:"total_rows"`
	ValidRows     int    `bun:"valid_rows"`
}

// RosterUserModel maps the roster_users table.
type RosterUserModel struct {
	bun.BaseModel `bun:"table:roster_users"`
	ID            int64  `bun:"id,pk,autoincrement"`
	RunID         int64  `bun:"run_id"`
	Position      int    `bun:"position"`
	Username      string `bun:"username"`
	Password      string `bun:"password"`
	SSHKey        string `bun:"ssh_key"`
}

// ServerModel maps the servers table.
type ServerModel struct {
	bun.BaseModel `bun:"table:servers"`
	ID            int64  `bun:"id,pk,autoincrement"`
	RunID         int64  `bun:"run_id"`
	Position      int    `bun:"position"`
	Address       string `bun:"address"`
}

// AssignmentModel maps the assignments join table.
type AssignmentModel struct {
	bun.BaseModel `bun:"table:assignments"`
	ID            int64 `bun:"id,pk,autoincrement"`
	RunID         int64 `bun:"run_id"`
	UserID        int64 `bun:"user_id"`
	ServerID      int64 `bun:"server_id"`
	Position      int   `bun:"position"`
}

func importRunModelToModel(m ImportRunModel) model.ImportRun {
	return model.ImportRun{
		ID:          m.ID,
		GeneratedAt: m.GeneratedAt,
		Format:      m.Format,
		TotalRows:   m.TotalRows,
		ValidRows:   m.ValidRows,
	}
}

// baseStore implements Store on a *bun.DB; the dialect-specific store
// types embed it.
type baseStore struct {
	bun *bun.DB
}

// SqliteStore is the Store implementation for SQLite databases.
type SqliteStore struct{ baseStore }

// PostgresStore is the Store implementation for PostgreSQL databases.
type PostgresStore struct{ baseStore }

// MySQLStore is the Store implementation for MySQL databases.
type MySQLStore struct{ baseStore }

// serverOrder fixes the stored server order: first appearance across the
// users walk, then any unowned index-only servers sorted for determinism.
func serverOrder(doc *model.Document) []string {
	var order []string
	seen := make(map[string]bool)
	for _, u := range doc.Users {
		for _, r := range u.Resources {
			if !seen[r] {
				seen[r] = true
				order = append(order, r)
			}
		}
	}
	var rest []string
	for addr := range doc.ResourceIndex {
		if !seen[addr] {
			rest = append(rest, addr)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func (s *baseStore) SaveDocument(doc *model.Document) (int64, error) {
	if doc == nil {
		return 0, errors.New("db: nil document")
	}
	ctx := context.Background()
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	run := ImportRunModel{
		GeneratedAt: doc.Metadata.GeneratedAt,
		Format:      doc.Metadata.Format,
		TotalRows:   doc.Metadata.TotalRows,
		ValidRows:   doc.Metadata.ValidRows,
	}
	if _, err := tx.NewInsert().Model(&run).Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}

	serverIDs := make(map[string]int64)
	for i, addr := range serverOrder(doc) {
		sm := ServerModel{RunID: run.ID, Position: i, Address: addr}
		if _, err := tx.NewInsert().Model(&sm).Exec(ctx); err != nil {
			return 0, MapDBError(err)
		}
		serverIDs[addr] = sm.ID
	}

	for i, u := range doc.Users {
		um := RosterUserModel{
			RunID:    run.ID,
			Position: i,
			Username: u.Username,
			Password: u.Password,
			SSHKey:   u.SSHKey,
		}
		if _, err := tx.NewInsert().Model(&um).Exec(ctx); err != nil {
			return 0, MapDBError(err)
		}
		for j, addr := range u.Resources {
			am := AssignmentModel{RunID: run.ID, UserID: um.ID, ServerID: serverIDs[addr], Position: j}
			if _, err := tx.NewInsert().Model(&am).Exec(ctx); err != nil {
				return 0, MapDBError(err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return run.ID, nil
}

func (s *baseStore) GetLatestRun() (*model.ImportRun, error) {
	ctx := context.Background()
	var m ImportRunModel
	err := s.bun.NewSelect().Model(&m).Order("id DESC").Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	run := importRunModelToModel(m)
	return &run, nil
}

func (s *baseStore) GetRunUsers(runID int64) ([]model.User, error) {
	ctx := context.Background()
	var ums []RosterUserModel
	if err := s.bun.NewSelect().Model(&ums).Where("run_id = ?", runID).Order("position ASC").Scan(ctx); err != nil {
		return nil, err
	}

	type assignmentRow struct {
		UserID   int64  `bun:"user_id"`
		Address  string `bun:"address"`
		Position int    `bun:"position"`
	}
	var rows []assignmentRow
	err := s.bun.NewSelect().
		ColumnExpr("a.user_id AS user_id, srv.address AS address, a.position AS position").
		TableExpr("assignments AS a").
		Join("JOIN servers AS srv ON srv.id = a.server_id").
		Where("a.run_id = ?", runID).
		Order("a.user_id ASC", "a.position ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	byUser := make(map[int64][]string)
	for _, r := range rows {
		byUser[r.UserID] = append(byUser[r.UserID], r.Address)
	}

	users := make([]model.User, 0, len(ums))
	for _, um := range ums {
		users = append(users, model.User{
			Username:      um.Username,
			Password:      um.Password,
			SSHKey:        um.SSHKey,
			Resources:     byUser[um.ID],
			ResourceCount: len(byUser[um.ID]),
		})
	}
	return users, nil
}

func (s *baseStore) ListServers(runID int64) ([]string, error) {
	ctx := context.Background()
	var sms []ServerModel
	if err := s.bun.NewSelect().Model(&sms).Where("run_id = ?", runID).Order("position ASC").Scan(ctx); err != nil {
		return nil, err
	}
	addrs := make([]string, 0, len(sms))
	for _, sm := range sms {
		addrs = append(addrs, sm.Address)
	}
	return addrs, nil
}

func (s *baseStore) GetUsersForServer(runID int64, address string) ([]string, error) {
	ctx := context.Background()
	var names []string
	err := s.bun.NewSelect().
		ColumnExpr("u.username").
		TableExpr("assignments AS a").
		Join("JOIN roster_users AS u ON u.id = a.user_id").
		Join("JOIN servers AS srv ON srv.id = a.server_id").
		Where("a.run_id = ? AND srv.address = ?", runID, address).
		Order("u.position ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (s *baseStore) Close() error {
	return s.bun.Close()
}
