package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/rateaudit/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the rateaudit profile",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default profile",
		Args:  cobra.NoArgs,
		// init must work when the existing profile does not parse.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if path == "" {
				def, err := config.DefaultProfilePath()
				if err != nil {
					return err
				}
				path = def
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			written, err := config.SaveProfile(config.DefaultProfile(), path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Wrote profile to", written)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing profile")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective profile (defaults, file and RATEAUDIT_* env)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := yaml.Marshal(a.profile)
			if err != nil {
				return fmt.Errorf("marshal profile: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
