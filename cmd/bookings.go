package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"cineconnect-cli/model"
)

func (a *app) bookingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"booking", "tickets"},
		Short:   "Purchase history and receipts",
	}
	cmd.AddCommand(
		a.bookingsListCommand(),
		a.bookingsShowCommand(),
		a.bookingsReceiptCommand(),
	)
	return cmd
}

func (a *app) bookingsListCommand() *cobra.Command {
	var all bool
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var bookings []model.Booking
			var err error
			if all {
				if err := a.requireAdmin(); err != nil {
					return err
				}
				bookings, err = a.client.ListBookings(a.context(cmd))
			} else {
				if err := a.require(model.RoleCliente, model.RoleAdmin); err != nil {
					return err
				}
				bookings, err = a.client.ListUserBookings(a.context(cmd), limit)
			}
			if err != nil {
				return err
			}
			if len(bookings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookings yet.")
				return nil
			}

			t := newTable(cmd, table.Row{"ID", "Transaction", "Movie", "When", "Seats", "Total", "Status"})
			for _, b := range bookings {
				t.AppendRow(table.Row{b.Id, b.TransactionID, bookingMovie(b), bookingWhen(b), strings.Join(b.SeatLabels(), " "), money(b.TotalPrice), b.Status})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "every booking in the system (admin)")
	cmd.Flags().IntVar(&limit, "limit", 0, "most recent bookings to show")
	return cmd
}

func bookingMovie(b model.Booking) string {
	if b.Showtime != nil {
		return showtimeMovie(*b.Showtime)
	}
	return "-"
}

func bookingWhen(b model.Booking) string {
	if b.Showtime != nil {
		return b.Showtime.Date + " " + clock(b.Showtime.Time)
	}
	return b.PurchaseDate
}

func (a *app) bookingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <booking-id>",
		Short: "Show one booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(model.RoleCliente, model.RoleAdmin); err != nil {
				return err
			}
			b, err := a.client.GetBooking(a.context(cmd), args[0])
			if err != nil {
				return err
			}
			rows := []table.Row{
				{"ID", b.Id},
				{"Transaction", b.TransactionID},
				{"Movie", bookingMovie(b)},
				{"When", bookingWhen(b)},
				{"Status", b.Status},
				{"Payment", b.PaymentMethod},
				{"Email", b.CustomerEmail},
				{"Purchased", b.PurchaseDate},
				{"Total", money(b.TotalPrice)},
			}
			if b.Showtime != nil && b.Showtime.Room != nil {
				rows = append(rows, table.Row{"Room", b.Showtime.Room.Name})
			}
			detailTable(cmd, rows...)

			if len(b.BookingSeats) == 0 {
				return nil
			}
			t := newTable(cmd, table.Row{"Seat", "Type", "Price"})
			for _, bs := range b.BookingSeats {
				t.AppendRow(table.Row{bs.Seat.Label(), bs.Seat.Type, money(bs.Price)})
			}
			t.Render()
			return nil
		},
	}
}

func (a *app) bookingsReceiptCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "receipt <booking-id>",
		Short: "Download the receipt of a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(model.RoleCliente, model.RoleAdmin); err != nil {
				return err
			}
			var buf bytes.Buffer
			name, err := a.client.DownloadReceipt(a.context(cmd), args[0], &buf)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = filepath.Base(name)
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("save receipt: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved receipt to %s (%d bytes)\n", path, buf.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write, the server's file name when omitted")
	return cmd
}
