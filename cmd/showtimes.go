package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cineconnect-cli/booking"
	"cineconnect-cli/catalog"
	"cineconnect-cli/model"
)

func (a *app) showtimesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "showtimes",
		Aliases: []string{"showtime"},
		Short:   "Browse and manage showtimes",
	}
	cmd.AddCommand(
		a.showtimesListCommand(),
		a.showtimesShowCommand(),
		a.showtimesSeatsCommand(),
		a.showtimesCreateCommand(),
		a.showtimesUpdateCommand(),
		a.showtimesDeleteCommand(),
		a.showtimesScheduleCommand(),
	)
	return cmd
}

func (a *app) showtimesListCommand() *cobra.Command {
	var filter model.ShowtimeFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List showtimes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showtimes, page, err := a.client.ListShowtimes(a.context(cmd), filter)
			if err != nil {
				return err
			}
			t := newTable(cmd, table.Row{"ID", "Movie", "Room", "Date", "Time", "Free", "Occupancy", "Price"})
			for _, st := range catalog.SortShowtimes(showtimes) {
				t.AppendRow(table.Row{
					st.Id,
					showtimeMovie(st),
					showtimeRoom(st),
					st.Date,
					clock(st.Time),
					fmt.Sprintf("%d/%d", st.AvailableSeats, st.TotalSeats),
					percent(catalog.OccupancyRate(st.TotalSeats, st.AvailableSeats)),
					money(st.Price),
				})
			}
			if page.TotalPages > 1 {
				t.AppendFooter(table.Row{"", fmt.Sprintf("page %d of %d", page.Page, page.TotalPages), "", "", "", "", "", fmt.Sprintf("%d total", page.Total)})
			}
			t.Render()
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&filter.MovieID, "movie", "", "only this movie id")
	f.StringVar(&filter.RoomID, "room", "", "only this room id")
	f.StringVar(&filter.Date, "date", "", "only this date, YYYY-MM-DD")
	f.StringVar(&filter.Time, "time", "", "only this time, HH:MM")
	f.IntVar(&filter.Page, "page", 0, "page number")
	f.IntVar(&filter.Limit, "limit", 0, "page size")
	return cmd
}

func showtimeMovie(st model.Showtime) string {
	if st.Movie != nil && st.Movie.Title != "" {
		return st.Movie.Title
	}
	return st.MovieID
}

func showtimeRoom(st model.Showtime) string {
	if st.Room != nil && st.Room.Name != "" {
		return st.Room.Name
	}
	return st.RoomID
}

func (a *app) showtimesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <showtime-id>",
		Short: "Show one showtime and its ticket prices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.client.GetShowtime(a.context(cmd), args[0])
			if err != nil {
				return err
			}
			detailTable(cmd,
				table.Row{"ID", st.Id},
				table.Row{"Movie", showtimeMovie(st)},
				table.Row{"Room", showtimeRoom(st)},
				table.Row{"Date", st.Date},
				table.Row{"Time", clock(st.Time)},
				table.Row{"Base price", money(st.Price)},
				table.Row{"Seats", fmt.Sprintf("%d free of %d", st.AvailableSeats, st.TotalSeats)},
			)
			prices, err := booking.ResolvePriceTable(st)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No ticket prices for this showtime.")
				return nil
			}
			t := newTable(cmd, table.Row{"Seat type", "Price"})
			for _, seatType := range model.SeatTypes {
				price, err := prices.For(seatType)
				if err != nil {
					return err
				}
				t.AppendRow(table.Row{seatType, money(price)})
			}
			t.Render()
			if prices.Estimated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Prices are estimated from the base price; the server confirms the charge.")
			}
			return nil
		},
	}
}

func (a *app) showtimesSeatsCommand() *cobra.Command {
	var failOpen bool
	cmd := &cobra.Command{
		Use:   "seats <showtime-id>",
		Short: "Show seat availability for a showtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			policy := booking.ReservationPolicy{
				FailOpen: failOpen || a.cfg.FailOpenReservations,
				Log:      a.log,
			}

			var st model.Showtime
			var snapshot booking.ReservationSnapshot
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				st, err = a.client.GetShowtime(gctx, args[0])
				return err
			})
			g.Go(func() error {
				var err error
				snapshot, err = booking.LoadReservations(gctx, a.client, args[0], policy)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			views := booking.ResolveSeats(booking.Layout(st), snapshot.SeatIDs)
			t := newTable(cmd, table.Row{"Seat", "Type", "State", "Reason"})
			for _, v := range views {
				t.AppendRow(table.Row{v.Seat.Label(), v.Seat.Type, v.State, v.Reason})
			}
			counts := booking.CountStates(views)
			t.AppendFooter(table.Row{
				fmt.Sprintf("%d seats", len(views)),
				"",
				fmt.Sprintf("%d available", counts[booking.SeatAvailable]),
				fmt.Sprintf("%d occupied", counts[booking.SeatOccupied]),
			})
			t.Render()
			if snapshot.Degraded {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning: reserved seats could not be loaded, availability may be out of date.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOpen, "fail-open", false, "show the map even when reserved seats cannot be loaded")
	return cmd
}

type showtimeFlags struct {
	input model.ShowtimeInput
	price float64
}

func (s *showtimeFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&s.input.MovieID, "movie", "", "movie id")
	f.StringVar(&s.input.RoomID, "room", "", "room id")
	f.StringVar(&s.input.Date, "date", "", "date, YYYY-MM-DD")
	f.StringVar(&s.input.Time, "time", "", "time, HH:MM")
	f.Float64Var(&s.price, "price", 0, "ticket price, the movie price when omitted")
}

// resolve copies the price into the input only when the flag was given.
func (s *showtimeFlags) resolve(cmd *cobra.Command) model.ShowtimeInput {
	input := s.input
	if cmd.Flags().Changed("price") {
		price := s.price
		input.Price = &price
	}
	return input
}

func (a *app) showtimesCreateCommand() *cobra.Command {
	var flags showtimeFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a showtime (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			st, err := a.client.CreateShowtime(a.context(cmd), flags.resolve(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created showtime %s on %s at %s\n", st.Id, st.Date, clock(st.Time))
			return nil
		},
	}
	flags.bind(cmd)
	for _, name := range []string{"movie", "room", "date", "time"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) showtimesUpdateCommand() *cobra.Command {
	var flags showtimeFlags
	cmd := &cobra.Command{
		Use:   "update <showtime-id>",
		Short: "Update fields of a showtime (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			if cmd.Flags().NFlag() == 0 {
				return fmt.Errorf("nothing to update, pass at least one field flag")
			}
			st, err := a.client.UpdateShowtime(a.context(cmd), args[0], flags.resolve(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated showtime %s on %s at %s\n", st.Id, st.Date, clock(st.Time))
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func (a *app) showtimesDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <showtime-id>",
		Short: "Delete a showtime (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			if err := confirm(cmd, fmt.Sprintf("Delete showtime %s", args[0]), yes); err != nil {
				return err
			}
			if err := a.client.DeleteShowtime(a.context(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted showtime %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) showtimesScheduleCommand() *cobra.Command {
	var req model.ScheduleRequest
	var price float64
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Create showtimes over a date range (admin)",
		Long: `Create one showtime per date and time between --from and --to.
Weekdays passed to --exclude are skipped. Slots that collide with an
existing showtime in the room are reported as skipped by the server.`,
		Example: `  cineconnect showtimes schedule --movie m1 --room r1 --from 2026-11-01 --to 2026-11-07 --times 15:00,19:30 --exclude monday`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			if cmd.Flags().Changed("price") {
				req.PriceOverride = &price
			}
			plan, err := catalog.PlanSchedule(req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				t := newTable(cmd, table.Row{"Date", "Time"})
				for _, slot := range plan.Slots {
					t.AppendRow(table.Row{slot.Date, slot.Time})
				}
				t.AppendFooter(table.Row{fmt.Sprintf("%d days", plan.Days), fmt.Sprintf("%d slots", len(plan.Slots))})
				t.Render()
				if len(plan.Excluded) > 0 {
					fmt.Fprintf(out, "Excluding %s\n", strings.Join(plan.Excluded, ", "))
				}
				return nil
			}
			if len(plan.Slots) == 0 {
				return fmt.Errorf("nothing to schedule, every day of the range is excluded")
			}

			result, err := a.client.ScheduleShowtimes(a.context(cmd), req)
			if err != nil {
				return err
			}
			created, skipped := len(result.Created), len(result.Skipped)
			if s := result.Summary; s != nil {
				created, skipped = s.TotalGenerated, s.TotalSkipped
			}
			a.log.WithFields(logrus.Fields{
				"movie_id": req.MovieID,
				"room_id":  req.RoomID,
				"created":  created,
				"skipped":  skipped,
			}).Info("showtimes scheduled")

			if result.Message != "" {
				fmt.Fprintln(out, result.Message)
			}
			fmt.Fprintf(out, "Created %d showtimes, skipped %d of %d planned slots\n", created, skipped, len(plan.Slots))
			if skipped == 0 {
				return nil
			}
			t := newTable(cmd, table.Row{"Date", "Time", "Reason"})
			for _, s := range result.Skipped {
				t.AppendRow(table.Row{s.Date, clock(s.Time), s.Reason})
			}
			t.Render()
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.MovieID, "movie", "", "movie id")
	f.StringVar(&req.RoomID, "room", "", "room id")
	f.StringVar(&req.StartDate, "from", "", "first date, YYYY-MM-DD")
	f.StringVar(&req.EndDate, "to", "", "last date, YYYY-MM-DD")
	f.StringSliceVar(&req.Times, "times", nil, "start times, HH:MM, comma separated")
	f.StringSliceVar(&req.ExcludedDays, "exclude", nil, "weekdays to skip, e.g. monday,tuesday")
	f.Float64Var(&price, "price", 0, "ticket price override")
	f.BoolVar(&dryRun, "dry-run", false, "print the planned slots without creating them")
	for _, name := range []string{"movie", "room", "from", "to", "times"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
