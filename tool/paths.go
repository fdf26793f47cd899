package tool

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	AppDirName       = "ganymede"
	ConfFileName     = "conf.json"
	AuthFileName     = "auth.json"
	SettingsFileName = "settings.yaml"
	LogFileName      = "logs/ganymede.log"
)

// AppConfigDir returns override when set, otherwise <user config dir>/ganymede.
func AppConfigDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}

// BackupFileName returns conf_YYYY_MM_DD_HH_MM_SS.json for the given local time.
func BackupFileName(now time.Time) string {
	return now.Format("conf_2006_01_02_15_04_05") + ".json"
}
