package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/okian/podium/internal/adapters/render"
	"github.com/okian/podium/internal/domain/aggregate"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/types"
)

type reportFlags struct {
	by        string
	top       int
	season    string
	medals    []string
	threshold int
	noColor   bool
}

func newReportCmd(g *globals) *cobra.Command {
	f := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print an aggregate medal table",
		Long: `Loads the athlete events file and prints one of the aggregate medal tables.
The medal and threshold flags recompute totals the same way the dashboard does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), g, f, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&f.by, "by", string(aggregate.LevelCountry), "table to print: country, season or year")
	cmd.Flags().IntVar(&f.top, "top", 0, "print only the N countries with the most medals (0 prints all)")
	cmd.Flags().StringVar(&f.season, "season", string(filter.SeasonBoth), "Summer, Winter or Both")
	cmd.Flags().StringSliceVar(&f.medals, "medal", nil, "medals to count (default all)")
	cmd.Flags().IntVar(&f.threshold, "threshold", 0, "keep rows with strictly more medals than this")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable coloured output")

	return cmd
}

func runReport(ctx context.Context, g *globals, f *reportFlags, w io.Writer) error {
	if f.noColor {
		color.NoColor = true
	}

	level, err := aggregate.ParseLevel(f.by)
	if err != nil {
		return err
	}
	st, err := filter.Parse(f.season, "", "", strconv.Itoa(f.threshold), f.medals)
	if err != nil {
		return err
	}

	cfg, err := g.setup(ctx, os.Stderr)
	if err != nil {
		return err
	}
	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	// Country totals carry no season; a season filter needs the finer table.
	if level == aggregate.LevelCountry && st.Season != filter.SeasonBoth {
		level = aggregate.LevelSeason
	}
	rows, err := svc.Aggregates(ctx, level)
	if err != nil {
		return err
	}
	rows = filter.Select(rows, st)
	if f.top > 0 {
		rows = render.TopCountries(rows, f.top)
	}

	printReport(w, level, st, rows)
	return nil
}

func printReport(w io.Writer, level aggregate.Level, st filter.State, rows []types.MedalRow) {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	_, _ = bold.Fprintf(w, "%s medals by %s, %s Olympics\n", st.MedalLabel(), level, st.Season)

	header := []string{"NOC"}
	switch level {
	case aggregate.LevelSeason:
		header = append(header, "Season")
	case aggregate.LevelYear:
		header = append(header, "Season", "Year")
	}
	header = append(header, "Gold", "Silver", "Bronze", "Total")

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)

	for _, r := range rows {
		line := []string{r.NOC}
		switch level {
		case aggregate.LevelSeason:
			line = append(line, r.Season)
		case aggregate.LevelYear:
			line = append(line, r.Season, strconv.Itoa(r.Year))
		}
		line = append(line,
			strconv.Itoa(r.TotalGold),
			strconv.Itoa(r.TotalSilver),
			strconv.Itoa(r.TotalBronze),
			strconv.Itoa(r.TotalMedals),
		)
		table.Append(line)
	}
	table.Render()

	_, _ = dim.Fprintf(w, "%d rows\n", len(rows))
}
