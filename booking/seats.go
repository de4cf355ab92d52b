package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"cineconnect-cli/model"
)

type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatOccupied  SeatState = "occupied"
	SeatSelected  SeatState = "selected"
)

const (
	ReasonReserved    = "reserved"
	ReasonMaintenance = "maintenance"
	ReasonUnavailable = "unavailable"
)

var (
	// ErrReservationsUnavailable blocks seat selection when the reserved
	// seats of a showtime could not be fetched.
	ErrReservationsUnavailable = errors.New("reserved seats could not be loaded")
	ErrSeatUnavailable         = errors.New("seat is not available")
	ErrUnknownSeat             = errors.New("seat is not part of this room")
)

// SeatView is a seat as presented for one showtime. Reason is set when the
// seat is occupied.
type SeatView struct {
	Seat   model.Seat
	State  SeatState
	Reason string
}

// ResolveSeats computes the per-showtime state of every seat in layout.
// Maintenance wins over reservations; a seat flagged unavailable by the
// room is occupied regardless of the showtime.
func ResolveSeats(layout []model.Seat, reservedIDs []string) []SeatView {
	reserved := make(map[string]struct{}, len(reservedIDs))
	for _, id := range reservedIDs {
		reserved[id] = struct{}{}
	}
	views := make([]SeatView, 0, len(layout))
	for _, seat := range layout {
		views = append(views, resolveSeat(seat, reserved))
	}
	return views
}

func resolveSeat(seat model.Seat, reserved map[string]struct{}) SeatView {
	view := SeatView{Seat: seat, State: SeatOccupied}
	switch {
	case strings.EqualFold(seat.Status, model.SeatStatusMaintenance):
		view.Reason = ReasonMaintenance
	case isReserved(seat.Id, reserved):
		view.Reason = ReasonReserved
	case seat.IsAvailable != nil && !*seat.IsAvailable,
		strings.EqualFold(seat.Status, model.SeatStatusOccupied):
		view.Reason = ReasonUnavailable
	default:
		view.State = SeatAvailable
	}
	return view
}

func isReserved(id string, reserved map[string]struct{}) bool {
	_, ok := reserved[id]
	return ok
}

// CountStates tallies views by state.
func CountStates(views []SeatView) map[SeatState]int {
	counts := map[SeatState]int{}
	for _, v := range views {
		counts[v.State]++
	}
	return counts
}

// ReservationSource is the slice of the API client the resolver needs.
type ReservationSource interface {
	ReservedSeats(ctx context.Context, showtimeID string) ([]string, error)
}

// ReservationPolicy controls what happens when reserved seats cannot be
// fetched. With FailOpen unset the failure is returned.
type ReservationPolicy struct {
	FailOpen bool
	Log      logrus.FieldLogger
}

// ReservationSnapshot is the reserved seat list of a showtime at a point in
// time. Degraded marks a snapshot that stands in for a failed fetch.
type ReservationSnapshot struct {
	ShowtimeID string
	SeatIDs    []string
	Degraded   bool
	FetchedAt  time.Time
}

// LoadReservations fetches the reserved seats of showtimeID.
func LoadReservations(ctx context.Context, src ReservationSource, showtimeID string, policy ReservationPolicy) (ReservationSnapshot, error) {
	ids, err := src.ReservedSeats(ctx, showtimeID)
	now := time.Now()
	if err == nil {
		return ReservationSnapshot{ShowtimeID: showtimeID, SeatIDs: ids, FetchedAt: now}, nil
	}
	if ctx.Err() != nil || !policy.FailOpen {
		return ReservationSnapshot{}, fmt.Errorf("%w: %w", ErrReservationsUnavailable, err)
	}
	if policy.Log != nil {
		policy.Log.WithError(err).
			WithField("showtime_id", showtimeID).
			Warn("reserved seats unavailable, continuing with every seat unreserved")
	}
	return ReservationSnapshot{ShowtimeID: showtimeID, Degraded: true, FetchedAt: now}, nil
}

// Selection is the ordered set of seats picked by the user.
type Selection struct {
	ids []string
}

// Toggle selects an available seat or releases a selected one.
func (s *Selection) Toggle(view SeatView) error {
	if i := slices.Index(s.ids, view.Seat.Id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return nil
	}
	if view.State == SeatOccupied {
		return fmt.Errorf("%w: %s", ErrSeatUnavailable, view.Seat.Label())
	}
	s.ids = append(s.ids, view.Seat.Id)
	return nil
}

func (s Selection) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

func (s Selection) Len() int {
	return len(s.ids)
}

func (s Selection) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *Selection) Clear() {
	s.ids = nil
}

// Retain drops selected seats that are no longer available in views and
// returns the labels of the dropped seats.
func (s *Selection) Retain(views []SeatView) []string {
	byID := indexViews(views)
	var dropped []string
	kept := s.ids[:0]
	for _, id := range s.ids {
		view, ok := byID[id]
		if !ok || view.State == SeatOccupied {
			label := id
			if ok {
				label = view.Seat.Label()
			}
			dropped = append(dropped, label)
			continue
		}
		kept = append(kept, id)
	}
	s.ids = kept
	return dropped
}

// Seats returns the selected seats in selection order.
func (s Selection) Seats(views []SeatView) []model.Seat {
	byID := indexViews(views)
	seats := make([]model.Seat, 0, len(s.ids))
	for _, id := range s.ids {
		if view, ok := byID[id]; ok {
			seats = append(seats, view.Seat)
		}
	}
	return seats
}

// MarkSelected returns a copy of views with the selected seats flagged.
func MarkSelected(views []SeatView, sel Selection) []SeatView {
	out := slices.Clone(views)
	for i := range out {
		if out[i].State == SeatAvailable && sel.Contains(out[i].Seat.Id) {
			out[i].State = SeatSelected
		}
	}
	return out
}

func indexViews(views []SeatView) map[string]SeatView {
	byID := make(map[string]SeatView, len(views))
	for _, v := range views {
		byID[v.Seat.Id] = v
	}
	return byID
}
