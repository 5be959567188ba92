// Package paths resolves where an application keeps its settings files.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/tony-format/go-settings/format"
)

// EnvConfigDir overrides the base configuration directory when set.
const EnvConfigDir = "SETTINGS_CONFIG_DIR"

// ConfigDir returns the configuration directory of app.
func ConfigDir(app string) (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, app), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("no configuration directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, app), nil
}

// File returns the path of the settings file name of app in format f.
func File(app, name string, f format.Format) (string, error) {
	dir, err := ConfigDir(app)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+f.Suffix()), nil
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}

// BackupName returns the name of the backup written before upgrading path
// from version old: <original>.backup_(<old>)<ext>.
func BackupName(path, old string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".backup_(" + old + ")" + ext
}
