package cmd

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cineconnect-cli/model"
)

var periods = []string{"today", "week", "month", "year"}

func (a *app) reportCommand() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"dashboard"},
		Short:   "Sales and occupancy reports (admin)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			if period != "" && !slices.Contains(periods, period) {
				return fmt.Errorf("unknown period %q, use one of %v", period, periods)
			}
			return a.requireAdmin()
		},
	}
	cmd.PersistentFlags().StringVar(&period, "period", "", "today, week, month or year")
	cmd.AddCommand(
		a.reportStatsCommand(&period),
		a.reportSalesCommand(&period),
		a.reportTrendsCommand(&period),
		a.reportGenresCommand(&period),
		a.reportOccupancyCommand(),
		a.reportLocationsCommand(),
		a.reportExportCommand(&period),
		a.reportSummaryCommand(&period),
	)
	return cmd
}

func (a *app) reportStatsCommand(period *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Headline numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.client.Stats(a.context(cmd), *period)
			if err != nil {
				return err
			}
			renderStats(cmd, stats)
			return nil
		},
	}
}

func renderStats(cmd *cobra.Command, stats model.DashboardStats) {
	detailTable(cmd,
		table.Row{"Sales", moneyFloat(stats.TotalSales)},
		table.Row{"Growth", fmt.Sprintf("%+.1f%%", stats.SalesGrowth)},
		table.Row{"Tickets", stats.TotalTickets},
		table.Row{"Average ticket", moneyFloat(stats.AveragePrice)},
		table.Row{"Occupancy", percent(stats.OccupancyRate)},
		table.Row{"Active movies", stats.ActiveMovies},
		table.Row{"Users", stats.TotalUsers},
	)
}

func (a *app) reportSalesCommand(period *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sales",
		Short: "Sales per movie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sales, err := a.client.SalesByMovie(a.context(cmd), *period)
			if err != nil {
				return err
			}
			renderSales(cmd, sales)
			return nil
		},
	}
}

func renderSales(cmd *cobra.Command, sales []model.MovieSales) {
	sorted := slices.Clone(sales)
	slices.SortStableFunc(sorted, func(x, y model.MovieSales) int {
		switch {
		case x.TotalSales > y.TotalSales:
			return -1
		case x.TotalSales < y.TotalSales:
			return 1
		}
		return 0
	})
	t := newTable(cmd, table.Row{"Movie", "Tickets", "Sales"})
	for _, s := range sorted {
		t.AppendRow(table.Row{s.MovieTitle, s.TicketCount, moneyFloat(s.TotalSales)})
	}
	t.AppendFooter(table.Row{
		"Total",
		lo.SumBy(sorted, func(s model.MovieSales) int { return s.TicketCount }),
		moneyFloat(lo.SumBy(sorted, func(s model.MovieSales) float64 { return s.TotalSales })),
	})
	t.Render()
}

func (a *app) reportTrendsCommand(period *string) *cobra.Command {
	return &cobra.Command{
		Use:   "trends",
		Short: "Daily sales and tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trends, err := a.client.DailyTrends(a.context(cmd), *period)
			if err != nil {
				return err
			}
			renderTrends(cmd, trends)
			return nil
		},
	}
}

func renderTrends(cmd *cobra.Command, trends []model.DailyTrend) {
	t := newTable(cmd, table.Row{"Day", "Date", "Tickets", "Sales"})
	for _, d := range trends {
		t.AppendRow(table.Row{d.Label, d.FullDate, d.Tickets, moneyFloat(d.Sales)})
	}
	t.Render()
}

func (a *app) reportGenresCommand(period *string) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "Ticket share per genre",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			genres, err := a.client.GenreDistribution(a.context(cmd), *period)
			if err != nil {
				return err
			}
			renderGenres(cmd, genres)
			return nil
		},
	}
}

func renderGenres(cmd *cobra.Command, genres []model.GenreShare) {
	t := newTable(cmd, table.Row{"Genre", "Share"})
	for _, g := range genres {
		t.AppendRow(table.Row{g.Name, percent(g.Value)})
	}
	t.Render()
}

func (a *app) reportOccupancyCommand() *cobra.Command {
	var filter model.OccupancyFilter
	var detail bool
	cmd := &cobra.Command{
		Use:   "occupancy",
		Short: "Occupancy per room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.client.RoomOccupancy(a.context(cmd), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if label := report.FilterApplied.DateRange.Label; label != "" {
				fmt.Fprintln(out, label)
			}
			t := newTable(cmd, table.Row{"Room", "Location", "Type", "Showtimes", "Avg", "Max", "Revenue", "Status"})
			for _, r := range report.Rooms {
				t.AppendRow(table.Row{r.Name, r.Location, r.Type, r.TotalShowtimes, percent(r.AvgOccupancy), percent(r.MaxOccupancy), moneyFloat(r.TotalRevenue), r.OccupancyStatus})
			}
			s := report.Summary
			t.AppendFooter(table.Row{
				fmt.Sprintf("%d rooms", s.TotalRooms), "", "",
				s.TotalShowtimes, percent(s.OverallAvgOccupancy), "", moneyFloat(s.TotalRevenue),
				fmt.Sprintf("%d seats", s.TotalOccupiedSeats),
			})
			t.Render()
			if report.Message != "" {
				fmt.Fprintln(out, report.Message)
			}
			if !detail {
				return nil
			}
			for _, r := range lo.Filter(report.Rooms, func(r model.RoomOccupancy, _ int) bool { return r.HasShowtimes }) {
				fmt.Fprintf(out, "\n%s\n", r.Name)
				st := newTable(cmd, table.Row{"Date", "Time", "Movie", "Seats", "Occupancy", "Revenue"})
				for _, s := range r.Showtimes {
					st.AppendRow(table.Row{s.Date, clock(s.Time), s.MovieTitle, fmt.Sprintf("%d/%d", s.OccupiedSeats, s.TotalSeats), percent(s.OccupancyPercentage), moneyFloat(s.Revenue)})
				}
				st.Render()
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&filter.Location, "location", "", "only rooms at this location")
	f.StringVar(&filter.Period, "range", "", "today, week, month or custom")
	f.StringVar(&filter.CustomDate, "date", "", "day to report with --range custom, YYYY-MM-DD")
	f.BoolVar(&detail, "detail", false, "list the showtimes of every room")
	return cmd
}

func (a *app) reportLocationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "Locations with occupancy data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locations, err := a.client.Locations(a.context(cmd))
			if err != nil {
				return err
			}
			for _, l := range locations {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}
}

func (a *app) reportExportCommand(period *string) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the sales report as Excel or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			name, err := a.client.ExportReport(a.context(cmd), *period, format, &buf)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = name
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("save report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved report to %s (%d bytes)\n", path, buf.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", model.ReportFormatExcel, "excel or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write")
	return cmd
}

func (a *app) reportSummaryCommand(period *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Stats, sales, trends and genres in one view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				stats  model.DashboardStats
				sales  []model.MovieSales
				trends []model.DailyTrend
				genres []model.GenreShare
			)
			g, ctx := errgroup.WithContext(a.context(cmd))
			g.Go(func() (err error) {
				stats, err = a.client.Stats(ctx, *period)
				return err
			})
			g.Go(func() (err error) {
				sales, err = a.client.SalesByMovie(ctx, *period)
				return err
			})
			g.Go(func() (err error) {
				trends, err = a.client.DailyTrends(ctx, *period)
				return err
			})
			g.Go(func() (err error) {
				genres, err = a.client.GenreDistribution(ctx, *period)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}
			renderStats(cmd, stats)
			renderSales(cmd, sales)
			renderTrends(cmd, trends)
			renderGenres(cmd, genres)
			return nil
		},
	}
}
