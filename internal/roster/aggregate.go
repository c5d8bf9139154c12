// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package roster

import "github.com/toeirei/rostermaster/internal/model"

// Aggregate merges the accepted rows into the ordered users list and the
// server index. Merge policy for an identity seen on multiple rows:
// the first row fixes password and SSH key, later rows only union their
// assignments into the set. First-seen order is preserved everywhere and
// never sorted; downstream consumers rely on it.
//
// The index is seeded with every server column the schema declared, so a
// server nobody is assigned to still shows up (empty) and can be flagged
// by validation.
func Aggregate(rows []Row, s Schema, rep *Report) ([]model.User, map[string][]string) {
	users := make([]model.User, 0, len(rows))
	byName := make(map[string]int)
	assigned := make(map[string]map[string]bool)

	for _, row := range rows {
		idx, seen := byName[row.Username]
		if !seen {
			idx = len(users)
			byName[row.Username] = idx
			users = append(users, model.User{
				Username:  row.Username,
				Password:  row.Password,
				SSHKey:    row.SSHKey,
				Resources: []string{},
			})
			assigned[row.Username] = make(map[string]bool)
		}
		set := assigned[row.Username]
		for _, res := range row.Resources {
			if set[res] {
				continue
			}
			set[res] = true
			users[idx].Resources = append(users[idx].Resources, res)
		}
	}
	for i := range users {
		users[i].ResourceCount = len(users[i].Resources)
	}

	index := make(map[string][]string, len(s.Resources))
	for _, rc := range s.Resources {
		index[rc.ID] = []string{}
	}
	for _, u := range users {
		for _, res := range u.Resources {
			if !containsString(index[res], u.Username) {
				index[res] = append(index[res], u.Username)
			}
		}
	}

	if rep != nil {
		for _, u := range users {
			if len(u.Resources) == 0 {
				rep.UsersWithoutAssignments = append(rep.UsersWithoutAssignments, u.Username)
			}
		}
		for _, rc := range s.Resources {
			if len(index[rc.ID]) == 0 {
				rep.ResourcesWithoutUsers = append(rep.ResourcesWithoutUsers, rc.ID)
			}
		}
	}
	return users, index
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
