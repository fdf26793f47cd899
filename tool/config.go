package tool

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/ganymede-go/types"
)

// DefaultSettings returns the settings written on first run.
func DefaultSettings() types.Settings {
	return types.Settings{
		APIBaseURL:            "https://ganymede-app.com/api",
		WebsiteURL:            "https://ganymede-app.com",
		ClientID:              "",
		RedirectURI:           "ganymede://oauth/callback",
		ListenPort:            53318,
		RequestTimeoutSeconds: 30,
		SyncRatePerSecond:     5,
		SyncBurst:             10,
		StampLocalEdits:       true,
		NotifyWS:              true,
		LogMode:               "prod",
		LogMaxSizeKB:          512,
	}
}

// LoadSettings reads settings.yaml. A missing file is created with defaults.
// Fields absent from an existing file keep their default value.
func LoadSettings(path string) (types.Settings, error) {
	cfg := DefaultSettings()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeSettings(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("settings file not found, and failed to generate default settings: %v", writeErr)
			}
			DefaultLogger.Infof("[Settings] created default settings file at %s", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read settings file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("settings file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read settings file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse settings file: %v", err)
	}
	return cfg, nil
}

// ApplyFlags overrides settings with the CLI flags that were set.
func ApplyFlags(cfg *types.Settings, flags types.Flags) {
	if flags.Log != "" {
		cfg.LogMode = flags.Log
	}
	if flags.ListenPort > 0 {
		cfg.ListenPort = flags.ListenPort
	}
	if flags.APIBaseURL != "" {
		cfg.APIBaseURL = flags.APIBaseURL
	}
	if flags.SkipNotify {
		cfg.NotifyWS = false
	}
}

func writeSettings(path string, cfg types.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
