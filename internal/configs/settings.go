package configs

import (
	"log"
	"os"
	"path/filepath"

	"github.com/tmacey/keystash/internal/utils"
)

type UserSettings struct {
	// UserConfigsPath holds config.toml and the trace log.
	UserConfigsPath string

	// UserDataPath holds per-run workspaces and the audit trail.
	UserDataPath string

	Username string
}

var UserKeystashSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		log.Fatalf("error getting username: %s", err)
	}

	UserKeystashSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "keystash"),
		UserDataPath:    filepath.Join(dataDir, "keystash"),
		Username:        username,
	}
}

// ConfigFilePath returns the location of the user's config.toml.
func ConfigFilePath() string {
	return filepath.Join(UserKeystashSettings.UserConfigsPath, "config.toml")
}

// LogFilePath returns the location of the append-only trace log.
func LogFilePath() string {
	return filepath.Join(UserKeystashSettings.UserConfigsPath, "log")
}

// AuditFilePath returns the location of the JSONL audit trail.
func AuditFilePath() string {
	return filepath.Join(UserKeystashSettings.UserDataPath, "audit.jsonl")
}
