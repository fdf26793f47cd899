package cmd

import (
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/moyoez/ganymede-go/auth"
	"github.com/moyoez/ganymede-go/conf"
	"github.com/moyoez/ganymede-go/notify"
	"github.com/moyoez/ganymede-go/syncclient"
	"github.com/moyoez/ganymede-go/tool"
	"github.com/moyoez/ganymede-go/types"
)

// app wires the components every command needs.
type app struct {
	dir      string
	settings types.Settings
	store    *conf.Store
	tokens   *auth.TokenStore
	client   *syncclient.Client
	flow     *auth.Flow
}

func newApp() (*app, error) {
	dir, err := tool.AppConfigDir(flags.ConfigDir)
	if err != nil {
		return nil, err
	}
	settingsPath := flags.SettingsPath
	if settingsPath == "" {
		settingsPath = filepath.Join(dir, tool.SettingsFileName)
	}
	settings, err := tool.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	tool.ApplyFlags(&settings, flags)

	logFile := ""
	if settings.LogMode != "none" {
		logFile = filepath.Join(dir, tool.LogFileName)
	}
	tool.InitLogger(settings.LogMode, logFile, settings.LogMaxSizeKB)
	notify.SetUseNotify(settings.NotifyWS)

	httpClient := tool.NewHTTPClient(time.Duration(settings.RequestTimeoutSeconds) * time.Second)

	store := conf.New(filepath.Join(dir, tool.ConfFileName),
		conf.WithNotifier(notify.Default),
		conf.WithStampLocalEdits(settings.StampLocalEdits),
	)
	tokens := auth.NewTokenStore(filepath.Join(dir, tool.AuthFileName))

	syncOpts := []syncclient.Option{syncclient.WithHTTPClient(httpClient)}
	if settings.SyncRatePerSecond > 0 {
		syncOpts = append(syncOpts, syncclient.WithRateLimit(rate.Limit(settings.SyncRatePerSecond), max(settings.SyncBurst, 1)))
	}
	client := syncclient.New(settings.APIBaseURL, tokens, store, syncOpts...)

	flow := auth.NewFlow(auth.FlowConfig{
		WebsiteURL:  settings.WebsiteURL,
		ClientID:    settings.ClientID,
		RedirectURI: settings.RedirectURI,
	}, tokens, auth.NewPendingStore(auth.PendingTTL), httpClient, notify.Default)

	return &app{
		dir:      dir,
		settings: settings,
		store:    store,
		tokens:   tokens,
		client:   client,
		flow:     flow,
	}, nil
}
