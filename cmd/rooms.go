package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"cineconnect-cli/model"
)

func (a *app) roomsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rooms",
		Aliases: []string{"room"},
		Short:   "Browse and manage screening rooms",
	}
	cmd.AddCommand(
		a.roomsListCommand(),
		a.roomsShowCommand(),
		a.roomsLocationsCommand(),
		a.roomsCreateCommand(),
		a.roomsUpdateCommand(),
		a.roomsDeleteCommand(),
	)
	return cmd
}

func (a *app) roomsListCommand() *cobra.Command {
	var filter model.RoomFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := a.client.ListRooms(a.context(cmd), filter)
			if err != nil {
				return err
			}
			t := newTable(cmd, table.Row{"ID", "Name", "Type", "Capacity", "Location", "Status"})
			for _, r := range rooms {
				t.AppendRow(table.Row{r.Id, r.Name, r.Type, r.Capacity, r.Location, r.Status})
			}
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d rooms", len(rooms)), "", lo.SumBy(rooms, func(r model.Room) int { return r.Capacity }), "", ""})
			t.Render()
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&filter.Search, "search", "", "match name or location")
	f.StringVar(&filter.Status, "status", "", "active, maintenance or inactive")
	f.StringVar(&filter.Type, "type", "", "room type, e.g. 2D, 3D, IMAX")
	f.StringVar(&filter.Location, "location", "", "only this location")
	return cmd
}

func (a *app) roomsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <room-id>",
		Short: "Show one room and its seat mix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			room, err := a.client.GetRoom(a.context(cmd), args[0])
			if err != nil {
				return err
			}
			detailTable(cmd,
				table.Row{"ID", room.Id},
				table.Row{"Name", room.Name},
				table.Row{"Type", room.Type},
				table.Row{"Capacity", room.Capacity},
				table.Row{"Location", room.Location},
				table.Row{"Status", room.Status},
			)
			if len(room.Seats) == 0 {
				return nil
			}
			byType := map[model.SeatType]int{}
			for _, s := range room.Seats {
				byType[s.Type]++
			}
			maintenance := lo.CountBy(room.Seats, func(s model.Seat) bool { return s.Status == model.SeatStatusMaintenance })
			t := newTable(cmd, table.Row{"Seat type", "Seats"})
			for _, seatType := range model.SeatTypes {
				t.AppendRow(table.Row{seatType, byType[seatType]})
			}
			t.AppendFooter(table.Row{"Total", len(room.Seats)})
			t.Render()
			if maintenance > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d seats under maintenance\n", maintenance)
			}
			return nil
		},
	}
}

func (a *app) roomsLocationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List the locations that have rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locations, err := a.client.ListRoomLocations(a.context(cmd))
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

func bindRoomFlags(cmd *cobra.Command, input *model.RoomInput) {
	f := cmd.Flags()
	f.StringVar(&input.Name, "name", "", "room name")
	f.IntVar(&input.Capacity, "capacity", 0, "number of seats")
	f.StringVar(&input.Type, "type", "", "room type, e.g. 2D, 3D, IMAX")
	f.StringVar(&input.Status, "status", "", "active, maintenance or inactive")
	f.StringVar(&input.Location, "location", "", "location")
}

func (a *app) roomsCreateCommand() *cobra.Command {
	var input model.RoomInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			room, err := a.client.CreateRoom(a.context(cmd), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created room %s (%s) with %d seats\n", room.Name, room.Id, room.Capacity)
			return nil
		},
	}
	bindRoomFlags(cmd, &input)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("capacity")
	return cmd
}

func (a *app) roomsUpdateCommand() *cobra.Command {
	var input model.RoomInput
	cmd := &cobra.Command{
		Use:   "update <room-id>",
		Short: "Update fields of a room (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			if cmd.Flags().NFlag() == 0 {
				return fmt.Errorf("nothing to update, pass at least one field flag")
			}
			room, err := a.client.UpdateRoom(a.context(cmd), args[0], input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated room %s (%s)\n", room.Name, room.Id)
			return nil
		},
	}
	bindRoomFlags(cmd, &input)
	return cmd
}

func (a *app) roomsDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <room-id>",
		Short: "Delete a room (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			if err := confirm(cmd, fmt.Sprintf("Delete room %s", args[0]), yes); err != nil {
				return err
			}
			if err := a.client.DeleteRoom(a.context(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted room %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
