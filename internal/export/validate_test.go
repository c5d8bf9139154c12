// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package export

import (
	"errors"
	"strings"
	"testing"

	"github.com/toeirei/rostermaster/internal/model"
)

func validDoc() *model.Document {
	return &model.Document{
		Metadata: model.Metadata{
			GeneratedAt: "2026-08-29T12:00:00Z",
			Format:      "matrix",
			TotalRows:   2,
			ValidRows:   2,
		},
		Users: []model.User{
			{Username: "dave", Password: "pw1", Resources: []string{"10.0.0.5"}, ResourceCount: 1},
			{Username: "erin", Password: "pw2", Resources: []string{"10.0.0.5"}, ResourceCount: 1},
		},
		ResourceIndex: map[string][]string{
			"10.0.0.5": {"dave", "erin"},
		},
	}
}

func TestValidateOK(t *testing.T) {
	res, err := Validate(validDoc())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestValidateHardErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Document)
		wantErr error
	}{
		{
			name:    "no users",
			mutate:  func(d *model.Document) { d.Users = nil },
			wantErr: ErrNoUsers,
		},
		{
			name:    "empty password",
			mutate:  func(d *model.Document) { d.Users[0].Password = "" },
			wantErr: ErrEmptyPassword,
		},
		{
			name: "resource missing from index",
			mutate: func(d *model.Document) {
				delete(d.ResourceIndex, "10.0.0.5")
			},
			wantErr: ErrAsymmetry,
		},
		{
			name: "index lists unassigned user",
			mutate: func(d *model.Document) {
				d.ResourceIndex["10.0.0.5"] = append(d.ResourceIndex["10.0.0.5"], "ghost")
			},
			wantErr: ErrAsymmetry,
		},
		{
			name: "user not listed in index",
			mutate: func(d *model.Document) {
				d.ResourceIndex["10.0.0.5"] = []string{"dave"}
			},
			wantErr: ErrAsymmetry,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)
			_, err := Validate(doc)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDuplicateAssignment(t *testing.T) {
	doc := validDoc()
	doc.Users[0].Resources = []string{"10.0.0.5", "10.0.0.5"}
	doc.Users[0].ResourceCount = 2
	if _, err := Validate(doc); err == nil {
		t.Error("duplicate assignment accepted")
	}
}

func TestValidateCountMismatch(t *testing.T) {
	doc := validDoc()
	doc.Users[0].ResourceCount = 7
	if _, err := Validate(doc); err == nil {
		t.Error("count mismatch accepted")
	}
}

func TestValidateWarnings(t *testing.T) {
	doc := validDoc()
	doc.Users = append(doc.Users, model.User{Username: "loner", Password: "pw3"})
	doc.ResourceIndex["10.0.0.9"] = []string{}
	res, err := Validate(doc)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("warnings = %v", res.Warnings)
	}
	joined := strings.Join(res.Warnings, "\n")
	if !strings.Contains(joined, "loner") || !strings.Contains(joined, "10.0.0.9") {
		t.Errorf("warnings = %v", res.Warnings)
	}
}
