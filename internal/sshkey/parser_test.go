// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

// testKeyLine builds a real authorized_keys line for validation tests.
func testKeyLine(t *testing.T, comment string) string {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("wrap key: %v", err)
	}
	line := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	if comment != "" {
		line += " " + comment
	}
	return line
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantAlg  string
		wantData string
		wantCmt  string
		wantErr  bool
	}{
		{
			name:     "plain key",
			line:     "ssh-ed25519 AAAAC3Nz alice@box",
			wantAlg:  "ssh-ed25519",
			wantData: "AAAAC3Nz",
			wantCmt:  "alice@box",
		},
		{
			name:     "no comment",
			line:     "ssh-rsa AAAAB3Nz",
			wantAlg:  "ssh-rsa",
			wantData: "AAAAB3Nz",
		},
		{
			name:     "leading options",
			line:     `from="10.0.0.0/8",no-pty ssh-ed25519 AAAAC3Nz deploy`,
			wantAlg:  "ssh-ed25519",
			wantData: "AAAAC3Nz",
			wantCmt:  "deploy",
		},
		{
			name:     "multi word comment",
			line:     "ecdsa-sha2-nistp256 AAAAE2Vj work laptop",
			wantAlg:  "ecdsa-sha2-nistp256",
			wantData: "AAAAE2Vj",
			wantCmt:  "work laptop",
		},
		{name: "empty", line: "", wantErr: true},
		{name: "no key type", line: "just some words", wantErr: true},
		{name: "algorithm only", line: "ssh-ed25519", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alg, data, cmt, err := Parse(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if alg != tt.wantAlg || data != tt.wantData || cmt != tt.wantCmt {
				t.Errorf("Parse = (%q, %q, %q), want (%q, %q, %q)", alg, data, cmt, tt.wantAlg, tt.wantData, tt.wantCmt)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(testKeyLine(t, "carol@box")); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}
	if err := Validate("ssh-ed25519 notbase64!!! x"); err == nil {
		t.Error("garbage key accepted")
	}
	if err := Validate(""); err == nil {
		t.Error("empty key accepted")
	}
}
