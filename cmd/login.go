package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moyoez/ganymede-go/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in through the browser",
	Long: `Prints the authorization URL, then waits for the ganymede://oauth/callback URL
the browser was redirected to to be pasted on stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		authURL, err := a.flow.Start()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Open this URL to sign in:\n\n  %s\n\nPaste the callback URL: ", authURL)

		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read callback url: %w", err)
		}
		code, state, err := auth.ParseCallbackURL(strings.TrimSpace(line))
		if err != nil {
			return err
		}
		if err := a.flow.HandleCallback(cmd.Context(), code, state); err != nil {
			return err
		}
		fmt.Fprintln(out, "signed in")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.tokens.Clean()
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
