package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// cacheDir returns $XDG_CACHE_HOME/structboard (~/.cache/structboard).
func cacheDir() string {
	return filepath.Join(xdgDir("XDG_CACHE_HOME", ".cache"), AppName)
}

// dataDir returns $XDG_DATA_HOME/structboard (~/.local/share/structboard).
func dataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), AppName)
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, fallback)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return err
		}
	}
	return nil
}
