package paths

import (
	"os"
	"path/filepath"
)

const (
	AppDirName      = "pwaicons"
	ConfigFileName  = "pwaicons.json"
	HistoryFileName = "history.log"
	HistoryDBName   = "history.db"
	ManifestName    = "manifest.json"
	ICOName         = "favicon.ico"
	CooldownName    = "cooldown.json"
	DirPerm         = 0755
	FilePerm        = 0644
)

// AtomicWrite writes data to path via a temporary file + rename to avoid
// partial writes. The parent directory is created if needed.
func AtomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FilePerm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// DataDir returns the platform-specific data directory for pwaicons:
//   - Windows: %APPDATA%\pwaicons
//   - Unix:    ~/.config/pwaicons
//
// Falls back to os.TempDir()/pwaicons if neither is available.
func DataDir() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDirName)
	}
	return filepath.Join(home, ".config", AppDirName)
}

// CooldownPath returns the notification cooldown state file.
func CooldownPath() string {
	return filepath.Join(DataDir(), CooldownName)
}

// HistoryPath returns the history location for the given backend.
func HistoryPath(backend string) string {
	if backend == "file" {
		return filepath.Join(DataDir(), HistoryFileName)
	}
	return filepath.Join(DataDir(), HistoryDBName)
}
