// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/toeirei/rostermaster/internal/model"
)

var (
	// ErrNoUsers marks a document with an empty users list.
	ErrNoUsers = errors.New("export: document has no users")
	// ErrEmptyPassword marks a user about to be emitted without a secret.
	ErrEmptyPassword = errors.New("export: user with empty password")
	// ErrAsymmetry marks a users/resource_index mismatch.
	ErrAsymmetry = errors.New("export: users and resource index disagree")
)

// ValidationResult carries the non-fatal findings of a validation pass.
type ValidationResult struct {
	Warnings []string
}

// Validate checks a document before it may be treated as authoritative.
// Hard failures return an error: no users, an empty password, duplicate or
// asymmetric entries, or a document that does not survive a re-parse.
// Empty assignment sets and unowned servers are warnings only.
func Validate(doc *model.Document) (*ValidationResult, error) {
	if doc == nil {
		return nil, errors.New("export: nil document")
	}
	if len(doc.Users) == 0 {
		return nil, ErrNoUsers
	}

	res := &ValidationResult{}
	seenUser := make(map[string]bool, len(doc.Users))
	for _, u := range doc.Users {
		if u.Password == "" {
			return nil, fmt.Errorf("%w: %s", ErrEmptyPassword, u.Username)
		}
		if seenUser[u.Username] {
			return nil, fmt.Errorf("export: duplicate user %s", u.Username)
		}
		seenUser[u.Username] = true

		seenRes := make(map[string]bool, len(u.Resources))
		for _, r := range u.Resources {
			if seenRes[r] {
				return nil, fmt.Errorf("export: user %s lists server %s twice", u.Username, r)
			}
			seenRes[r] = true
		}
		if u.ResourceCount != len(u.Resources) {
			return nil, fmt.Errorf("export: user %s resource_count %d does not match %d resources", u.Username, u.ResourceCount, len(u.Resources))
		}
		if len(u.Resources) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("user %s has no server assignments", u.Username))
		}
	}

	// Referential symmetry, both directions.
	for _, u := range doc.Users {
		for _, r := range u.Resources {
			owners, ok := doc.ResourceIndex[r]
			if !ok {
				return nil, fmt.Errorf("%w: server %s missing from index", ErrAsymmetry, r)
			}
			if !contains(owners, u.Username) {
				return nil, fmt.Errorf("%w: index for %s does not list %s", ErrAsymmetry, r, u.Username)
			}
		}
	}
	byName := make(map[string]model.User, len(doc.Users))
	for _, u := range doc.Users {
		byName[u.Username] = u
	}
	for r, owners := range doc.ResourceIndex {
		seenOwner := make(map[string]bool, len(owners))
		for _, owner := range owners {
			if seenOwner[owner] {
				return nil, fmt.Errorf("export: index for %s lists %s twice", r, owner)
			}
			seenOwner[owner] = true
			u, ok := byName[owner]
			if !ok {
				return nil, fmt.Errorf("%w: index for %s lists unknown user %s", ErrAsymmetry, r, owner)
			}
			if !contains(u.Resources, r) {
				return nil, fmt.Errorf("%w: user %s is not assigned %s", ErrAsymmetry, owner, r)
			}
		}
		if len(owners) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("server %s has no assigned users", r))
		}
	}

	// Structural well-formedness: the rendered form must re-parse into the
	// same in-memory shape.
	data, err := Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("export: document does not serialize: %w", err)
	}
	var rt model.Document
	if err := json.Unmarshal(data, &rt); err != nil {
		return nil, fmt.Errorf("export: document does not re-parse: %w", err)
	}
	if !reflect.DeepEqual(*doc, rt) {
		return nil, errors.New("export: document does not round-trip")
	}

	return res, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
