// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/toeirei/rostermaster/internal/model"
)

func testDoc() *model.Document {
	return &model.Document{
		Metadata: model.Metadata{
			GeneratedAt: "2026-08-29T12:00:00Z",
			Format:      "matrix",
			TotalRows:   3,
			ValidRows:   2,
		},
		Users: []model.User{
			{Username: "dave", Password: "pw1", SSHKey: "ssh-ed25519 AAAA dave", Resources: []string{"10.0.0.5", "10.0.0.9"}, ResourceCount: 2},
			{Username: "erin", Password: "pw2", Resources: []string{"10.0.0.5"}, ResourceCount: 1},
		},
		ResourceIndex: map[string][]string{
			"10.0.0.5": {"dave", "erin"},
			"10.0.0.9": {"dave"},
		},
	}
}

func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewStoreFromDSN("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("NewStoreFromDSN: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndReadBackDocument(t *testing.T) {
	s := newTestStore(t)

	runID, err := s.SaveDocument(testDoc())
	if err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	if runID == 0 {
		t.Fatal("runID should be non-zero")
	}

	run, err := s.GetLatestRun()
	if err != nil {
		t.Fatalf("GetLatestRun: %v", err)
	}
	if run == nil || run.ID != runID {
		t.Fatalf("latest run = %+v, want ID %d", run, runID)
	}
	if run.Format != "matrix" || run.ValidRows != 2 {
		t.Errorf("run = %+v", run)
	}

	users, err := s.GetRunUsers(runID)
	if err != nil {
		t.Fatalf("GetRunUsers: %v", err)
	}
	if !reflect.DeepEqual(users, testDoc().Users) {
		t.Errorf("users = %+v\nwant %+v", users, testDoc().Users)
	}

	servers, err := s.ListServers(runID)
	if err != nil {
		t.Fatalf("ListServers: %v", err)
	}
	if !reflect.DeepEqual(servers, []string{"10.0.0.5", "10.0.0.9"}) {
		t.Errorf("servers = %v", servers)
	}

	owners, err := s.GetUsersForServer(runID, "10.0.0.5")
	if err != nil {
		t.Fatalf("GetUsersForServer: %v", err)
	}
	if !reflect.DeepEqual(owners, []string{"dave", "erin"}) {
		t.Errorf("owners = %v", owners)
	}
}

func TestGetLatestRunEmpty(t *testing.T) {
	s := newTestStore(t)
	run, err := s.GetLatestRun()
	if err != nil {
		t.Fatalf("GetLatestRun: %v", err)
	}
	if run != nil {
		t.Errorf("run = %+v, want nil", run)
	}
}

func TestSaveDocumentDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	doc := testDoc()
	doc.Users = append(doc.Users, model.User{Username: "dave", Password: "again"})
	if _, err := s.SaveDocument(doc); !errors.Is(err, ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
	// The failed save must not leave a partial run behind.
	run, err := s.GetLatestRun()
	if err != nil {
		t.Fatalf("GetLatestRun: %v", err)
	}
	if run != nil {
		t.Errorf("partial run persisted: %+v", run)
	}
}

func TestMultipleRunsLatestWins(t *testing.T) {
	s := newTestStore(t)
	first, err := s.SaveDocument(testDoc())
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := s.SaveDocument(testDoc())
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second <= first {
		t.Errorf("run IDs not increasing: %d then %d", first, second)
	}
	run, err := s.GetLatestRun()
	if err != nil {
		t.Fatalf("GetLatestRun: %v", err)
	}
	if run.ID != second {
		t.Errorf("latest = %d, want %d", run.ID, second)
	}
}

func TestPackageHelpersRequireInit(t *testing.T) {
	old := store
	store = nil
	defer func() { store = old }()

	if _, err := SaveDocument(testDoc()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("SaveDocument err = %v", err)
	}
	if _, err := GetLatestRun(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetLatestRun err = %v", err)
	}
}

func TestInitDBSetsPackageStore(t *testing.T) {
	old := store
	defer func() { store = old }()

	if err := InitDB("sqlite", ":memory:"); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if !IsInitialized() {
		t.Fatal("store not initialized")
	}
	if _, err := SaveDocument(testDoc()); err != nil {
		t.Errorf("SaveDocument via helpers: %v", err)
	}
}

func TestInitDBUnsupportedType(t *testing.T) {
	if _, err := NewStoreFromDSN("oracle", "x"); err == nil {
		t.Error("unsupported type accepted")
	}
}

func TestMapDBError(t *testing.T) {
	if MapDBError(nil) != nil {
		t.Error("nil should map to nil")
	}
	if got := MapDBError(fmt.Errorf("UNIQUE constraint failed: roster_users.username")); !errors.Is(got, ErrDuplicate) {
		t.Errorf("sqlite unique = %v", got)
	}
	if got := MapDBError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)")); !errors.Is(got, ErrDuplicate) {
		t.Errorf("postgres unique = %v", got)
	}
	other := fmt.Errorf("connection refused")
	if got := MapDBError(other); got != other {
		t.Errorf("unrelated error rewritten: %v", got)
	}
}
