package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push local profiles to the server and merge the answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		resp, err := a.client.SyncProfiles(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "synced, server knows %d profile(s)\n", len(resp.Profiles))
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push <guide-id>",
	Short: "Push one guide's progress of the profile in use",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseUints(args)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.client.PushActiveProgress(cmd.Context(), ids[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "progress of guide %d pushed\n", ids[0])
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		user, err := a.client.Me(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, user)
	},
}

func init() {
	syncCmd.AddCommand(syncPushCmd)
	rootCmd.AddCommand(syncCmd, meCmd)
}
