package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/rateaudit/internal/core"
	"github.com/JonMunkholm/rateaudit/internal/logging"
	"github.com/JonMunkholm/rateaudit/internal/rateengine"
)

type analyzeOptions struct {
	mapping core.ColumnMapping

	unit      string
	fuel      float64
	markup    float64
	engineURL string
	offline   bool
	jsonOut   bool
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var opt analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Price every shipment in a CSV",
		Example: `  rateaudit analyze march.csv --weight "Weight (lb)" --rate "Paid"
  rateaudit analyze march.csv --weight Weight --rate Cost --zone Zone --fuel 0.12 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args[0], opt)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opt.mapping.Weight, "weight", "", "header of the weight column (required)")
	f.StringVar(&opt.mapping.CarrierRate, "rate", "", "header of the carrier rate column (required)")
	f.StringVar(&opt.mapping.Zone, "zone", "", "header of the zone column")
	f.StringVar(&opt.mapping.DestZip, "dest-zip", "", "header of the destination ZIP column")
	f.StringVar(&opt.mapping.OrigZip, "orig-zip", "", "header of the origin ZIP column")
	f.StringVar(&opt.unit, "unit", "", "weight unit: lb, oz, g, kg (overrides profile)")
	f.Float64Var(&opt.fuel, "fuel", 0, "fuel surcharge as a fraction, e.g. 0.1 (overrides profile)")
	f.Float64Var(&opt.markup, "markup", 0, "markup as a fraction, e.g. 0.15 (overrides profile)")
	f.StringVar(&opt.engineURL, "engine-url", "", "rate engine base URL (overrides profile)")
	f.BoolVar(&opt.offline, "offline", false, "skip the rate engine and use fallback rates")
	f.BoolVar(&opt.jsonOut, "json", false, "print the full result as JSON")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("rate")

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, path string, opt analyzeOptions) error {
	ctx := cmd.Context()

	settings := a.profile.Settings
	f := cmd.Flags()
	if f.Changed("unit") {
		settings.WeightUnit = core.WeightUnit(opt.unit)
	}
	if f.Changed("fuel") {
		settings.FuelSurchargePct = opt.fuel
	}
	if f.Changed("markup") {
		settings.MarkupPct = opt.markup
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	table, size, err := readTable(path)
	if err != nil {
		return err
	}

	engine, err := a.engine(cmd, opt)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Debug("analyzing file",
		"path", path,
		"size", humanize.IBytes(uint64(size)),
		"rows", len(table.DataRows()),
	)

	resp, err := core.AnalyzeTable(ctx, core.NewGateway(engine, a.profile.EngineTimeout()), table, opt.mapping, settings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opt.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	if resp.Warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Warning:", resp.Warning)
	}
	return printResults(out, resp)
}

// engine returns nil when the run is offline, which prices every row locally.
func (a *app) engine(cmd *cobra.Command, opt analyzeOptions) (core.RateEngine, error) {
	if opt.offline || (a.profile.Offline && !cmd.Flags().Changed("offline")) {
		return nil, nil
	}
	url := a.profile.EngineURL
	if cmd.Flags().Changed("engine-url") {
		url = opt.engineURL
	}
	client, err := rateengine.NewClient(url, a.profile.EngineTimeout())
	if err != nil {
		return nil, err
	}
	return client, nil
}

// readTable loads and parses a CSV, rejecting files with no data rows.
func readTable(path string) (core.RawTable, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	table, err := core.ParseTable(data)
	if err != nil {
		return nil, 0, err
	}
	if len(table) == 0 {
		return nil, 0, core.ErrEmptyTable
	}
	return table, int64(len(data)), nil
}

func printResults(w io.Writer, resp *core.AnalysisResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ROW\tWEIGHT LB\tZONE\tDEST ZIP\tCARRIER\tBASE\tFUEL\tFINAL\tSAVINGS\tSAVINGS %\t")
	for _, r := range resp.Results {
		fmt.Fprintf(tw, "%d\t%.2f\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			r.RowIndex, r.WeightLbs, zoneLabel(r.Zone), dash(r.DestZip),
			r.CarrierRate, r.BaseRate, r.FuelSurcharge, r.FinalRate, r.Savings, r.SavingsPercent)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := resp.Summary
	_, err := fmt.Fprintf(w, "\n%s shipments  avg final %.2f  min %.2f  max %.2f\n",
		humanize.Comma(int64(s.Count)), s.AvgFinal, s.MinFinal, s.MaxFinal)
	return err
}

func zoneLabel(z *int) string {
	if z == nil {
		return "-"
	}
	return strconv.Itoa(*z)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
