package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/moyoez/ganymede-go/types"
)

var flags types.Flags

var rootCmd = &cobra.Command{
	Use:   "ganymede",
	Short: "Ganymede companion backend",
	Long: `ganymede - local backend of the Ganymede guide companion.

Keeps profiles and guide progress in conf.json, serves them to the webview over a
loopback API and syncs them with the Ganymede server once signed in.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigDir, "config-dir", "", "directory holding conf.json and auth.json (default: user config dir)")
	pf.StringVar(&flags.SettingsPath, "settings", "", "path to settings.yaml (default: <config-dir>/settings.yaml)")
	pf.StringVar(&flags.Log, "log", "", "log mode: dev, prod or none")
	pf.StringVar(&flags.APIBaseURL, "api", "", "override the remote API base URL")
	pf.IntVar(&flags.ListenPort, "port", 0, "loopback port of the local API")
	pf.BoolVar(&flags.SkipNotify, "skip-notify", false, "do not push notifications to the UI")
}
