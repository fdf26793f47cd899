package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/moyoez/ganymede-go/tool"
)

var confCmd = &cobra.Command{
	Use:   "conf",
	Short: "Inspect and edit conf.json",
}

var confShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current document",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		doc, err := a.store.Load()
		if err != nil {
			return err
		}
		return printJSON(cmd, doc)
	},
}

var confToggleCmd = &cobra.Command{
	Use:   "toggle <guide-id> <step-index> <checkbox-index>",
	Short: "Toggle a checkbox for the profile in use",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseUints(args)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		checkbox, err := a.store.ToggleCheckbox(ids[0], ids[1], ids[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "toggled checkbox %d\n", checkbox)
		return nil
	},
}

var confStepCmd = &cobra.Command{
	Use:   "step <guide-id> <step>",
	Short: "Set the current step of a guide for the profile in use",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseUints(args)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		progress, err := a.store.SetCurrentStep(ids[0], ids[1])
		if err != nil {
			return err
		}
		return printJSON(cmd, progress)
	},
}

var confResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Back up conf.json and replace it with a default one",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.store.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "configuration reset")
		return nil
	},
}

var confBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy conf.json to a timestamped backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		path, err := a.store.Backup()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	confCmd.AddCommand(confShowCmd, confToggleCmd, confStepCmd, confResetCmd, confBackupCmd)
	rootCmd.AddCommand(confCmd)
}

func parseUints(args []string) ([]uint32, error) {
	out := make([]uint32, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%q is not a positive integer", arg)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := tool.MarshalPretty(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
