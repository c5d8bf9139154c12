// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the normalized credential dataset produced by the
// roster extraction engine and consumed by the provisioning layers.
package model

import "fmt"

// User is one credential holder extracted from the roster. Resources holds
// the server addresses the user is granted access to, in the order the
// server columns were declared in the roster header.
type User struct {
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	SSHKey        string   `json:"ssh_key"`
	Resources     []string `json:"resources"`
	ResourceCount int      `json:"resource_count"`
}

// String returns the username with its assignment count, for log lines.
func (u User) String() string {
	return fmt.Sprintf("%s (%d servers)", u.Username, u.ResourceCount)
}

// ColumnDetection records where each semantic column was found in the
// roster header, and whether it was actually detected or fell back to its
// default position. Consumers use the flags to judge how much to trust
// the extraction.
type ColumnDetection struct {
	UsernameDetected bool `json:"username_detected"`
	UsernameIndex    int  `json:"username_index"`
	PasswordDetected bool `json:"password_detected"`
	PasswordIndex    int  `json:"password_index"`
	SSHKeyDetected   bool `json:"ssh_key_detected"`
	SSHKeyIndex      int  `json:"ssh_key_index"`
	ResourceColumns  int  `json:"resource_columns"`
}

// Metadata describes one extraction run: when it ran, which header shape
// was recognized, how detection went and how many rows survived.
type Metadata struct {
	GeneratedAt     string          `json:"generated_at"`
	Format          string          `json:"format"`
	ColumnDetection ColumnDetection `json:"column_detection"`
	TotalRows       int             `json:"total_rows"`
	ValidRows       int             `json:"valid_rows"`
	SkippedRows     int             `json:"skipped_rows"`
}

// Document is the normalized dataset: users in first-seen order plus the
// reverse index from server address to the usernames assigned to it.
// The two collections are referentially symmetric; see export.Validate.
type Document struct {
	Metadata      Metadata            `json:"metadata"`
	Users         []User              `json:"users"`
	ResourceIndex map[string][]string `json:"resource_index"`
}

// ImportRun is a stored extraction run in the inventory database.
type ImportRun struct {
	ID          int64
	GeneratedAt string
	Format      string
	TotalRows   int
	ValidRows   int
}
