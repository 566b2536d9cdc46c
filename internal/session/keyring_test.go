package session

import (
	"path/filepath"
	"testing"
)

func newTestKeyring(t *testing.T) *Keyring {
	t.Helper()
	k, err := OpenKeyring(filepath.Join(t.TempDir(), "keyring.db"))
	if err != nil {
		t.Fatalf("OpenKeyring failed: %v", err)
	}
	t.Cleanup(func() { k.Close() })
	return k
}

func TestKeyringRoundTrip(t *testing.T) {
	k := newTestKeyring(t)

	if err := k.Set("key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := k.Get("key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "value" {
		t.Errorf("Get = %q, want %q", got, "value")
	}

	// Overwrite
	if err := k.Set("key", "other"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, _ := k.Get("key"); got != "other" {
		t.Errorf("Get after overwrite = %q, want %q", got, "other")
	}
}

func TestKeyringMissingKey(t *testing.T) {
	k := newTestKeyring(t)

	got, err := k.Get("absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "" {
		t.Errorf("Get of absent key = %q, want empty", got)
	}

	// Deleting an absent key is fine.
	if err := k.Delete("absent"); err != nil {
		t.Errorf("Delete of absent key failed: %v", err)
	}
}

func TestKeyringDurability(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyring.db")

	k, err := OpenKeyring(path)
	if err != nil {
		t.Fatalf("OpenKeyring failed: %v", err)
	}
	if err := k.SaveCredentials("A1", "R1"); err != nil {
		t.Fatalf("SaveCredentials failed: %v", err)
	}
	k.Close()

	// Reopen and verify both entries survived.
	k2, err := OpenKeyring(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer k2.Close()

	access, _ := k2.AccessToken()
	refresh, _ := k2.RefreshToken()
	if access != "A1" || refresh != "R1" {
		t.Errorf("reopened tokens = (%q, %q), want (A1, R1)", access, refresh)
	}
}

func TestKeyringClearCredentials(t *testing.T) {
	k := newTestKeyring(t)

	if err := k.SaveCredentials("A1", "R1"); err != nil {
		t.Fatalf("SaveCredentials failed: %v", err)
	}
	if err := k.ClearCredentials(); err != nil {
		t.Fatalf("ClearCredentials failed: %v", err)
	}

	access, _ := k.AccessToken()
	refresh, _ := k.RefreshToken()
	if access != "" || refresh != "" {
		t.Errorf("tokens after clear = (%q, %q), want empty", access, refresh)
	}
}
