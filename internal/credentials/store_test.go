package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	gongerrors "github.com/tessro/gong/internal/errors"
)

var testDefaults = WifiCredentials{SSID: "ASUS", Password: "password"}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir(), "", testDefaults)

	if store.Exists() {
		t.Error("Exists() = true, want false for new store")
	}

	got := store.Load()
	if got != testDefaults {
		t.Errorf("Load() = %+v, want defaults %+v", got, testDefaults)
	}
}

func TestLoadWellFormed(t *testing.T) {
	tests := []struct {
		name string
		data string
		want WifiCredentials
	}{
		{
			name: "canonical order",
			data: "wifi_ssid=Home\nwifi_pass=secret\n",
			want: WifiCredentials{SSID: "Home", Password: "secret"},
		},
		{
			name: "reversed order",
			data: "wifi_pass=secret\nwifi_ssid=Home\n",
			want: WifiCredentials{SSID: "Home", Password: "secret"},
		},
		{
			name: "interspersed unknown lines",
			data: "# gong\nvolume=20\nwifi_pass=secret\nfoo\nwifi_ssid=Home\n\n",
			want: WifiCredentials{SSID: "Home", Password: "secret"},
		},
		{
			name: "crlf and surrounding space",
			data: "  wifi_ssid=Home\r\n\twifi_pass=secret  \r\n",
			want: WifiCredentials{SSID: "Home", Password: "secret"},
		},
		{
			name: "equals in value",
			data: "wifi_ssid=a=b\nwifi_pass=c=d\n",
			want: WifiCredentials{SSID: "a=b", Password: "c=d"},
		},
		{
			name: "missing password key",
			data: "wifi_ssid=Home\n",
			want: WifiCredentials{SSID: "Home", Password: "password"},
		},
		{
			name: "no trailing newline",
			data: "wifi_ssid=Home\nwifi_pass=secret",
			want: WifiCredentials{SSID: "Home", Password: "secret"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(tt.data), 0600); err != nil {
				t.Fatal(err)
			}
			store := NewStore(dir, "", testDefaults)
			if got := store.Load(); got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSaveRewritesWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	if err := os.WriteFile(path, []byte("wifi_ssid=Old\nwifi_pass=old\nextra=1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir, "", testDefaults)
	if err := store.Save(WifiCredentials{SSID: "New", Password: "pw"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "wifi_ssid=New\nwifi_pass=pw\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", string(data), want)
	}

	if got := store.Load(); got.SSID != "New" || got.Password != "pw" {
		t.Errorf("Load() after Save = %+v", got)
	}
}

func TestSaveFailure(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing", "dir"), "", testDefaults)

	err := store.Save(WifiCredentials{SSID: "x", Password: "y"})
	if !errors.Is(err, gongerrors.ErrConfigWrite) {
		t.Errorf("Save() error = %v, want ErrConfigWrite", err)
	}
}

func TestEnsureDefaults(t *testing.T) {
	store := NewStore(t.TempDir(), "", testDefaults)

	wrote, err := store.EnsureDefaults()
	if err != nil {
		t.Fatalf("EnsureDefaults() error = %v", err)
	}
	if !wrote {
		t.Error("EnsureDefaults() wrote = false on empty storage, want true")
	}

	if err := store.Save(WifiCredentials{SSID: "Mine", Password: "pw"}); err != nil {
		t.Fatal(err)
	}

	wrote, err = store.EnsureDefaults()
	if err != nil {
		t.Fatalf("EnsureDefaults() error = %v", err)
	}
	if wrote {
		t.Error("EnsureDefaults() overwrote an existing file")
	}
	if got := store.Load(); got.SSID != "Mine" {
		t.Errorf("SSID = %q, want %q", got.SSID, "Mine")
	}
}

func TestMount(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "flash")
	store := NewStore(root, "", testDefaults)

	if err := store.Mount(); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Errorf("root not created: %v", err)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("Mount() left %d entries behind", len(entries))
	}
}

func TestMountFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plainfile")
	if err := os.WriteFile(file, nil, 0600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(filepath.Join(file, "root"), "", testDefaults)
	if err := store.Mount(); !errors.Is(err, gongerrors.ErrStorageUnavailable) {
		t.Errorf("Mount() error = %v, want ErrStorageUnavailable", err)
	}
}

func TestStorePath(t *testing.T) {
	store := NewStore("/flash", "creds.txt", testDefaults)
	if store.Path() != "/flash/creds.txt" {
		t.Errorf("Path() = %q, want %q", store.Path(), "/flash/creds.txt")
	}
}
