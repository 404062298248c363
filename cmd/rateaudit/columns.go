package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/rateaudit/internal/core"
)

func newColumnsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <file>",
		Short: "List a CSV's headers and the suggested column mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, size, err := readTable(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			headers := table.Header()
			fmt.Fprintf(out, "%s: %s, %s records, %d columns\n\n",
				args[0], humanize.IBytes(uint64(size)), humanize.Comma(int64(len(table.DataRows()))), len(headers))

			for i, h := range headers {
				fmt.Fprintf(out, "  %2d  %s\n", i+1, h)
			}

			suggested := core.SuggestMapping(headers)
			fmt.Fprintln(out, "\nSuggested mapping:")
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, f := range core.AllFields {
				h := suggested.Header(f)
				if h == "" {
					h = "(none)"
				}
				fmt.Fprintf(tw, "  %s\t%s\n", f, h)
			}
			return tw.Flush()
		},
	}
}
