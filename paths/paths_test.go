package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signadot/tony-format/go-settings/format"
)

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	got, err := ConfigDir("cam")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cam"); got != want {
		t.Errorf("ConfigDir = %q, want %q", got, want)
	}
	f, err := File("cam", "camera", format.YAMLFormat)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cam", "camera.yaml"); f != want {
		t.Errorf("File = %q, want %q", f, want)
	}
	if err := EnsureDir(f); err != nil {
		t.Fatal(err)
	}
	if st, err := os.Stat(filepath.Dir(f)); err != nil || !st.IsDir() {
		t.Errorf("EnsureDir did not create %s: %v", filepath.Dir(f), err)
	}
}

func TestBackupName(t *testing.T) {
	tests := []struct {
		path, old, want string
	}{
		{"/a/camera.xml", "1", "/a/camera.backup_(1).xml"},
		{"camera", "0.9", "camera.backup_(0.9)"},
		{"/a.d/s.settings.json", "2", "/a.d/s.settings.backup_(2).json"},
	}
	for _, tt := range tests {
		if got := BackupName(tt.path, tt.old); got != tt.want {
			t.Errorf("BackupName(%q, %q) = %q, want %q", tt.path, tt.old, got, tt.want)
		}
	}
}
