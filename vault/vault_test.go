package vault

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestVault_PlainRoundtrip(t *testing.T) {
	v, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := v.ReadFile("entries.jsonl"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want fs.ErrNotExist", err)
	}
	want := `{"id":"a"}` + "\n"
	if err := v.WriteFile("entries.jsonl", []byte(want)); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := v.ReadFile("entries.jsonl")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != want {
		t.Errorf("ReadFile() = %q, want %q", got, want)
	}
	if !v.IsUnlocked() || v.IsEncrypted() {
		t.Errorf("plain vault: IsUnlocked() = %v, IsEncrypted() = %v", v.IsUnlocked(), v.IsEncrypted())
	}
}

func TestVault_EncryptionLifecycle(t *testing.T) {
	dir := t.TempDir()
	v, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	original := []byte(`{"amount":"12.50"}` + "\n")
	if err := v.WriteFile("entries.jsonl", original); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := v.WriteFile("settings.yaml", []byte("currency: EUR\n")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := v.EnableEncryption("short"); err == nil {
		t.Fatal("EnableEncryption(short passphrase) succeeded, want error")
	}
	const passphrase = "correct horse battery"
	if err := v.EnableEncryption(passphrase); err != nil {
		t.Fatalf("EnableEncryption() error = %v", err)
	}

	raw, _ := os.ReadFile(filepath.Join(dir, "entries.jsonl"))
	if !isAgeEncrypted(raw) {
		t.Error("entries.jsonl should be encrypted on disk")
	}
	raw, _ = os.ReadFile(filepath.Join(dir, "settings.yaml"))
	if isAgeEncrypted(raw) {
		t.Error("settings.yaml should stay in clear")
	}

	got, err := v.ReadFile("entries.jsonl")
	if err != nil {
		t.Fatalf("ReadFile() after encryption error = %v", err)
	}
	if string(got) != string(original) {
		t.Errorf("ReadFile() = %q, want %q", got, original)
	}

	// A fresh handle on the same folder starts locked.
	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !reopened.IsEncrypted() || reopened.IsUnlocked() {
		t.Fatalf("reopened vault: IsEncrypted() = %v, IsUnlocked() = %v", reopened.IsEncrypted(), reopened.IsUnlocked())
	}
	if _, err := reopened.ReadFile("entries.jsonl"); !errors.Is(err, ErrLocked) {
		t.Errorf("ReadFile(locked) error = %v, want ErrLocked", err)
	}
	if err := reopened.WriteFile("entries.jsonl", original); !errors.Is(err, ErrLocked) {
		t.Errorf("WriteFile(locked) error = %v, want ErrLocked", err)
	}
	if err := reopened.Unlock("wrong passphrase"); !errors.Is(err, ErrPassphrase) {
		t.Errorf("Unlock(wrong) error = %v, want ErrPassphrase", err)
	}
	if err := reopened.Unlock(passphrase); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	got, err = reopened.ReadFile("entries.jsonl")
	if err != nil {
		t.Fatalf("ReadFile() after unlock error = %v", err)
	}
	if string(got) != string(original) {
		t.Errorf("ReadFile() = %q, want %q", got, original)
	}

	reopened.Lock()
	if reopened.IsUnlocked() {
		t.Error("IsUnlocked() after Lock() = true")
	}
}
