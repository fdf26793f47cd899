package types

// Settings is the application settings file (settings.yaml), separate from the user document.
type Settings struct {
	APIBaseURL            string  `yaml:"api_base_url"`
	WebsiteURL            string  `yaml:"website_url"`
	ClientID              string  `yaml:"client_id"`
	RedirectURI           string  `yaml:"redirect_uri"`
	ListenPort            int     `yaml:"listen_port"`
	RequestTimeoutSeconds int     `yaml:"request_timeout_seconds"`
	SyncRatePerSecond     float64 `yaml:"sync_rate_per_second"`
	SyncBurst             int     `yaml:"sync_burst"`
	StampLocalEdits       bool    `yaml:"stamp_local_edits"`
	NotifyWS              bool    `yaml:"notify_ws"`
	LogMode               string  `yaml:"log_mode"`
	LogMaxSizeKB          int     `yaml:"log_max_size_kb"`
}

// Flags holds runtime overrides from CLI flags
type Flags struct {
	Log          string
	ConfigDir    string
	SettingsPath string
	ListenPort   int
	APIBaseURL   string
	SkipNotify   bool
}
