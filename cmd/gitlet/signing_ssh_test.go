package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/gitlet/pkg/object"
	"golang.org/x/crypto/ssh"
)

func writeTestSigningKey(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "gitlet test")
	if err != nil {
		t.Fatalf("MarshalPrivateKey: %v", err)
	}
	path := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatalf("WriteFile(key): %v", err)
	}
	return path
}

func TestSSHSignerRoundTrip(t *testing.T) {
	keyPath := writeTestSigningKey(t)
	signer, resolved, err := newSSHCommitSigner(keyPath)
	if err != nil {
		t.Fatalf("newSSHCommitSigner: %v", err)
	}
	if resolved != keyPath {
		t.Fatalf("resolved key = %q, want %q", resolved, keyPath)
	}

	c := object.NewInitialCommit()
	c.Message = "signed"
	sig, err := signer(object.CommitSigningPayload(c))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !strings.HasPrefix(sig, commitSignaturePrefix+":ssh-ed25519:") {
		t.Fatalf("signature = %q", sig)
	}
	c.Signature = sig

	fingerprint, err := verifyCommitSignature(c)
	if err != nil {
		t.Fatalf("verifyCommitSignature: %v", err)
	}
	if !strings.HasPrefix(fingerprint, "SHA256:") {
		t.Fatalf("fingerprint = %q", fingerprint)
	}

	c.Message = "tampered"
	if _, err := verifyCommitSignature(c); err == nil {
		t.Fatal("verifyCommitSignature accepted a tampered commit")
	}

	c.Signature = "pgp:nope"
	if _, err := verifyCommitSignature(c); err == nil {
		t.Fatal("verifyCommitSignature accepted an unknown encoding")
	}
}

func TestSignedCommitsVerify(t *testing.T) {
	keyPath := writeTestSigningKey(t)
	initWorkspace(t)

	writeFile(t, "a.txt", "A")
	gitlet(t, "add", "a.txt")
	gitlet(t, "commit", "--key", keyPath, "signed with flag")

	gitlet(t, "config", "set", "user.signing_key", keyPath)
	writeFile(t, "a.txt", "B")
	gitlet(t, "add", "a.txt")
	gitlet(t, "commit", "--sign", "signed with config")

	commitFileCmd(t, "a.txt", "C", "unsigned")

	out := gitlet(t, "verify")
	if out != "ok: verified 3 blob(s), 4 commit(s), 2 signature(s)\n" {
		t.Fatalf("verify output = %q", out)
	}
}

func TestVerifyDetectsCorruptBlob(t *testing.T) {
	dir := initWorkspace(t)
	commitFileCmd(t, "a.txt", "A", "c1")

	blobs, err := os.ReadDir(filepath.Join(dir, ".gitlet", "blobs"))
	if err != nil || len(blobs) != 1 {
		t.Fatalf("ReadDir(blobs) = %v, %v", blobs, err)
	}
	victim := filepath.Join(dir, ".gitlet", "blobs", blobs[0].Name())
	if err := os.WriteFile(victim, []byte("blob 3\x00bad"), 0o644); err != nil {
		t.Fatalf("WriteFile(corrupt blob): %v", err)
	}

	if got := gitletFail(t, "verify"); !strings.Contains(got, blobs[0].Name()) {
		t.Fatalf("verify error = %q, want to name the corrupt blob", got)
	}
}
