package credentials

import (
	"path/filepath"
	"testing"
)

func TestHolderSet(t *testing.T) {
	store := NewStore(t.TempDir(), "", testDefaults)
	h := NewHolder(store)

	if h.Current() != testDefaults {
		t.Errorf("Current() = %+v, want defaults", h.Current())
	}

	creds := WifiCredentials{SSID: "Cafe", Password: "latte"}
	if err := h.Set(creds); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if h.Current() != creds {
		t.Errorf("Current() = %+v, want %+v", h.Current(), creds)
	}
	if got := store.Load(); got != creds {
		t.Errorf("store.Load() = %+v, want %+v", got, creds)
	}
}

func TestHolderSetFailureKeepsCurrent(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "gone"), "", testDefaults)
	h := NewHolder(store)

	if err := h.Set(WifiCredentials{SSID: "x", Password: "y"}); err == nil {
		t.Fatal("Set() error = nil, want error")
	}
	if h.Current() != testDefaults {
		t.Errorf("Current() = %+v after failed Set, want defaults", h.Current())
	}
}
