package credentials

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gongerrors "github.com/tessro/gong/internal/errors"
)

const (
	// DefaultFileName is the default name for the credentials file.
	DefaultFileName = "config.txt"

	ssidKey = "wifi_ssid="
	passKey = "wifi_pass="
)

// WifiCredentials is the network the device joins at boot.
type WifiCredentials struct {
	SSID     string `json:"ssid"`
	Password string `json:"-"`
}

// Valid reports whether both fields are non-empty.
func (c WifiCredentials) Valid() bool {
	return c.SSID != "" && c.Password != ""
}

// Store persists WiFi credentials as a line-oriented key=value file under a
// storage root.
type Store struct {
	root     string
	path     string
	defaults WifiCredentials
}

// NewStore creates a store for root/name. An empty name uses DefaultFileName.
func NewStore(root, name string, defaults WifiCredentials) *Store {
	if name == "" {
		name = DefaultFileName
	}
	return &Store{
		root:     root,
		path:     filepath.Join(root, name),
		defaults: defaults,
	}
}

// Mount makes sure the storage root exists and is writable.
func (s *Store) Mount() error {
	if err := os.MkdirAll(s.root, 0700); err != nil {
		return fmt.Errorf("%w: %v", gongerrors.ErrStorageUnavailable, err)
	}
	probe, err := os.CreateTemp(s.root, ".mount-*")
	if err != nil {
		return fmt.Errorf("%w: %v", gongerrors.ErrStorageUnavailable, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// Load returns the stored credentials. It never fails: a missing or
// unreadable file, or a missing key, falls back to the defaults.
func (s *Store) Load() WifiCredentials {
	creds, err := s.Read()
	if err != nil {
		return s.defaults
	}
	return creds
}

// Read parses the credentials file. Keys absent from the file keep their
// default values; unknown lines are ignored and the last occurrence of a key
// wins.
func (s *Store) Read() (WifiCredentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return s.defaults, err
	}
	return Parse(data, s.defaults), nil
}

// Parse reads wifi_ssid= and wifi_pass= lines from data on top of defaults.
func Parse(data []byte, defaults WifiCredentials) WifiCredentials {
	creds := defaults
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, ssidKey):
			creds.SSID = line[len(ssidKey):]
		case strings.HasPrefix(line, passKey):
			creds.Password = line[len(passKey):]
		}
	}
	return creds
}

// Save rewrites the whole file with the given credentials.
func (s *Store) Save(creds WifiCredentials) error {
	data := Format(creds)

	tmp, err := os.CreateTemp(s.root, ".config-*")
	if err != nil {
		return fmt.Errorf("%w: %v", gongerrors.ErrConfigWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", gongerrors.ErrConfigWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", gongerrors.ErrConfigWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", gongerrors.ErrConfigWrite, err)
	}

	return nil
}

// Format renders credentials in the on-disk format.
func Format(creds WifiCredentials) []byte {
	var buf bytes.Buffer
	buf.WriteString(ssidKey + creds.SSID + "\n")
	buf.WriteString(passKey + creds.Password + "\n")
	return buf.Bytes()
}

// EnsureDefaults writes the default credentials when no file exists yet.
// It reports whether a file was written.
func (s *Store) EnsureDefaults() (bool, error) {
	if s.Exists() {
		return false, nil
	}
	if err := s.Save(s.defaults); err != nil {
		return false, err
	}
	return true, nil
}

// Defaults returns the compiled-in credentials.
func (s *Store) Defaults() WifiCredentials {
	return s.defaults
}

// Exists returns true if a credentials file exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the path to the credentials file.
func (s *Store) Path() string {
	return s.path
}
