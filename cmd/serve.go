package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/moyoez/ganymede-go/api"
	"github.com/moyoez/ganymede-go/api/notifyhub"
	"github.com/moyoez/ganymede-go/conf"
	"github.com/moyoez/ganymede-go/notify"
	"github.com/moyoez/ganymede-go/tool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the loopback API used by the webview",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.store.EnsureInitialized(); err != nil {
			return err
		}

		var hub *notifyhub.Hub
		if a.settings.NotifyWS {
			hub = notifyhub.New()
			notify.SetHub(hub)
		}

		watcher, err := conf.NewWatcher(a.store, notify.Default)
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()

		server := api.NewServer(a.settings.ListenPort, api.Deps{
			Store:  a.store,
			Sync:   a.client,
			Flow:   a.flow,
			Tokens: a.tokens,
			Hub:    hub,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		tool.DefaultLogger.Infof("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
