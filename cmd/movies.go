package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"cineconnect-cli/catalog"
	"cineconnect-cli/model"
	"cineconnect-cli/store"
)

func (a *app) moviesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "movies",
		Aliases: []string{"movie"},
		Short:   "Browse and manage movies",
	}
	cmd.AddCommand(
		a.moviesListCommand(),
		a.moviesGenresCommand(),
		a.moviesShowCommand(),
		a.moviesCreateCommand(),
		a.moviesUpdateCommand(),
		a.moviesDeleteCommand(),
	)
	return cmd
}

func (a *app) moviesListCommand() *cobra.Command {
	var filter model.MovieFilter
	var all, showcase bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			var movies []model.Movie
			var page model.Pagination
			if all {
				if err := a.requireAdmin(); err != nil {
					return err
				}
				list, err := a.client.ListAllMovies(ctx, filter)
				if err != nil {
					return err
				}
				movies = list
			} else {
				list, p, err := a.client.ListMovies(ctx, filter)
				if err != nil {
					return err
				}
				movies, page = list, p
			}
			if showcase {
				movies = catalog.FilterShowcase(movies, "")
			}

			t := newTable(cmd, table.Row{"ID", "Title", "Genre", "Min", "Rating", "Price", "Release", "Status"})
			for _, m := range movies {
				t.AppendRow(table.Row{m.Id, m.Title, m.Genre, m.Duration, m.Rating.String(), money(m.Price), m.ReleaseDate, m.Status})
			}
			if page.TotalPages > 1 {
				t.AppendFooter(table.Row{"", fmt.Sprintf("page %d of %d", page.Page, page.TotalPages), "", "", "", "", "", fmt.Sprintf("%d total", page.Total)})
			}
			t.Render()
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&filter.Search, "search", "", "match title or description")
	f.StringVar(&filter.Genre, "genre", "", "only this genre")
	f.StringVar(&filter.Status, "status", "", "active or inactive")
	f.IntVar(&filter.Page, "page", 0, "page number")
	f.IntVar(&filter.Limit, "limit", 0, "page size")
	f.BoolVar(&all, "all", false, "active and inactive movies (admin)")
	f.BoolVar(&showcase, "showcase", false, "only active movies with showtimes")
	return cmd
}

func (a *app) moviesGenresCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List movie genres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			genres, fresh, err := store.LoadGenreCache()
			if err != nil || !fresh {
				genres, err = a.client.ListGenres(a.context(cmd))
				if err != nil {
					return err
				}
				if err := store.SaveGenreCache(genres); err != nil {
					a.log.WithError(err).Debug("could not cache genres")
				}
			}
			for _, g := range genres {
				fmt.Fprintln(cmd.OutOrStdout(), g)
			}
			return nil
		},
	}
}

func (a *app) moviesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <movie-id>",
		Short: "Show one movie and its showtimes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.client.GetMovie(a.context(cmd), args[0])
			if err != nil {
				return err
			}
			detailTable(cmd,
				table.Row{"ID", m.Id},
				table.Row{"Title", m.Title},
				table.Row{"Genre", m.Genre},
				table.Row{"Duration", fmt.Sprintf("%d min", m.Duration)},
				table.Row{"Rating", m.Rating.String()},
				table.Row{"Price", money(m.Price)},
				table.Row{"Release", m.ReleaseDate},
				table.Row{"Status", m.Status},
				table.Row{"Description", m.Description},
			)
			if len(m.Showtimes) == 0 {
				return nil
			}
			t := newTable(cmd, table.Row{"Showtime", "Date", "Time", "Room", "Free", "Price"})
			for _, st := range catalog.SortShowtimes(m.Showtimes) {
				t.AppendRow(table.Row{st.Id, st.Date, clock(st.Time), st.RoomID, fmt.Sprintf("%d/%d", st.AvailableSeats, st.TotalSeats), money(st.Price)})
			}
			t.Render()
			return nil
		},
	}
}

type movieFlags struct {
	input model.MovieInput
}

func (m *movieFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&m.input.Title, "title", "", "title")
	f.StringVar(&m.input.Genre, "genre", "", "genre")
	f.IntVar(&m.input.Duration, "duration", 0, "duration in minutes")
	f.Float64Var(&m.input.Rating, "rating", 0, "rating from 0 to 10")
	f.StringVar(&m.input.Description, "description", "", "synopsis")
	f.Float64Var(&m.input.Price, "price", 0, "base ticket price")
	f.StringVar(&m.input.ReleaseDate, "release-date", "", "release date, YYYY-MM-DD")
	f.StringVar(&m.input.Poster, "poster", "", "poster URL")
	f.StringVar(&m.input.Status, "status", "", "active or inactive")
}

func (a *app) moviesCreateCommand() *cobra.Command {
	var flags movieFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a movie (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			m, err := a.client.CreateMovie(a.context(cmd), flags.input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created movie %s (%s)\n", m.Title, m.Id)
			return nil
		},
	}
	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (a *app) moviesUpdateCommand() *cobra.Command {
	var flags movieFlags
	cmd := &cobra.Command{
		Use:   "update <movie-id>",
		Short: "Update fields of a movie (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			if cmd.Flags().NFlag() == 0 {
				return fmt.Errorf("nothing to update, pass at least one field flag")
			}
			m, err := a.client.UpdateMovie(a.context(cmd), args[0], flags.input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated movie %s (%s)\n", m.Title, m.Id)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func (a *app) moviesDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <movie-id>",
		Short: "Delete a movie (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			if err := confirm(cmd, fmt.Sprintf("Delete movie %s", args[0]), yes); err != nil {
				return err
			}
			if err := a.client.DeleteMovie(a.context(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted movie %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
