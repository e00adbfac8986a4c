// Package identity manages the per-machine device identifier. Each machine
// gets a random identifier on first run; it marks the registrations created
// here and gates which rows this machine may delete.
package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type deviceFile struct {
	DeviceID  string    `json:"device_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LoadOrCreate returns the device identifier stored at path, generating and
// persisting a fresh one when the file is missing or unreadable. A mangled
// file is treated as first run, not an error.
func LoadOrCreate(path string) (string, error) {
	if data, err := os.ReadFile(path); err == nil {
		var df deviceFile
		if json.Unmarshal(data, &df) == nil && df.DeviceID != "" {
			return df.DeviceID, nil
		}
	}

	df := deviceFile{DeviceID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if err := save(path, df); err != nil {
		return "", err
	}
	return df.DeviceID, nil
}

func save(path string, df deviceFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
