package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LoadIdentity returns the stable per-machine guest id, creating and
// persisting one on first use. The core only ever compares it against
// hostId, so it stays an opaque string.
func LoadIdentity() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return loadIdentityAt(filepath.Join(dir, "doodlz", "guest_id"))
}

func loadIdentityAt(path string) (string, error) {
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", err
	}
	return id, nil
}
