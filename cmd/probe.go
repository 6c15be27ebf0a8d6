package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/okian/podium/internal/probe"
)

func newProbeCmd(g *globals) *cobra.Command {
	var (
		cfg     probe.Config
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check a running server with random dashboard states",
		Long: `Fetches the control choices from a running server, issues concurrent dataset
requests with random states and verifies every response. Exits non-zero when a
request fails or a response is inconsistent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				color.NoColor = true
			}
			if _, err := g.setup(cmd.Context(), os.Stderr); err != nil {
				return err
			}
			sum, err := probe.Run(cmd.Context(), cfg)
			printSummary(cmd.OutOrStdout(), sum)
			return err
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", probe.DefaultURL, "base URL of the server")
	cmd.Flags().IntVar(&cfg.Requests, "requests", probe.DefaultRequests, "number of dataset requests")
	cmd.Flags().IntVar(&cfg.Workers, "workers", probe.DefaultWorkers, "number of concurrent requests")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "seed of the state generator (0 picks one)")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", probe.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	return cmd
}

func printSummary(w io.Writer, sum probe.Summary) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	_, _ = bold.Fprintf(w, "probe %s (seed %d)\n", sum.RunID, sum.Seed)
	_, _ = fmt.Fprintf(w, "  requests %d, succeeded %d, failed %d, rows checked %d, took %s\n",
		sum.Requested, sum.Succeeded, sum.Failed, sum.Checked, sum.Duration.Round(time.Millisecond))

	if sum.Violated == 0 {
		if sum.Failed == 0 && sum.Succeeded > 0 {
			_, _ = green.Fprintln(w, "  all responses consistent")
		}
		return
	}
	_, _ = red.Fprintf(w, "  %d violations, showing %d\n", sum.Violated, len(sum.Violations))

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader([]string{"Season", "Gender", "Year", "Threshold", "Medals", "Dataset", "Row", "Reason"})
	for _, v := range sum.Violations {
		table.Append([]string{
			v.Request.Season,
			v.Request.Gender,
			v.Request.Year,
			strconv.Itoa(v.Request.Threshold),
			strings.Join(v.Request.Medals, ","),
			v.Dataset,
			strconv.Itoa(v.Row),
			firstLine(v.Reason),
		})
	}
	table.Render()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
