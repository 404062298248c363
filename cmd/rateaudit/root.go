package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/rateaudit/internal/config"
	"github.com/JonMunkholm/rateaudit/internal/core"
	"github.com/JonMunkholm/rateaudit/internal/logging"
)

// app holds state shared by every subcommand.
type app struct {
	cfgFile string
	debug   bool

	// profile is loaded before any subcommand runs.
	profile *config.Profile
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "rateaudit",
		Short: "Estimate shipping rates for a CSV of shipments",
		Long: `rateaudit reads a shipment CSV, maps its columns onto weight, carrier rate,
zone and ZIP fields, and prices every row through the rate engine. When the
engine is unreachable (or --offline is set) it falls back to the built-in
tier table and says so.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadProfile(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "profile file (default is ~/.rateaudit/config.yaml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging on stderr")

	root.AddCommand(
		newAnalyzeCmd(a),
		newColumnsCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) loadProfile(cmd *cobra.Command) error {
	p, err := config.LoadProfile(a.cfgFile)
	if err != nil {
		return err
	}
	a.profile = p

	level := p.LogLevel
	if a.debug {
		level = "debug"
	}
	logging.SetupWriter(cmd.ErrOrStderr(), level, "text")
	return nil
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		printError(root.ErrOrStderr(), err)
		return 1
	}
	return 0
}

// printError prefers the coded user message and keeps the technical cause
// on a second line.
func printError(w io.Writer, err error) {
	if !core.IsUserFacing(err) {
		fmt.Fprintln(w, "✗ Error:", err)
		return
	}
	fmt.Fprintln(w, "✗ Error:", core.FormatUserError(err))
	fmt.Fprintln(w, "  cause:", err)
}
