// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

// Package sshkey parses and validates the SSH public key material carried
// in the roster's key column.
package sshkey

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Parse splits a raw public key string (authorized_keys style) into its
// three core components: algorithm, key data, and comment. Leading options
// (from="...", command="...") are tolerated and dropped.
func Parse(rawKey string) (algorithm, keyData, comment string, err error) {
	fields := strings.Fields(rawKey)
	if len(fields) == 0 {
		err = fmt.Errorf("empty key material")
		return
	}

	keyStartIndex := -1
	for i, field := range fields {
		if strings.HasPrefix(field, "ssh-") || strings.HasPrefix(field, "ecdsa-") {
			keyStartIndex = i
			break
		}
	}
	if keyStartIndex == -1 {
		err = fmt.Errorf("no SSH key type found")
		return
	}
	if len(fields) < keyStartIndex+2 {
		err = fmt.Errorf("missing key data after algorithm")
		return
	}

	algorithm = fields[keyStartIndex]
	keyData = fields[keyStartIndex+1]
	if len(fields) > keyStartIndex+2 {
		comment = strings.Join(fields[keyStartIndex+2:], " ")
	}
	return
}

// Validate checks that the key material actually decodes as an SSH public
// key, not just that it is shaped like one.
func Validate(rawKey string) error {
	if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(strings.TrimSpace(rawKey))); err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}
	return nil
}
