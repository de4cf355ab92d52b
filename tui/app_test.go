package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"cineconnect-cli/booking"
	"cineconnect-cli/model"
	"cineconnect-cli/service"
)

type testItem struct {
	value string
}

func (t testItem) Title() string       { return t.value }
func (t testItem) Description() string { return "" }
func (t testItem) FilterValue() string { return strings.ToLower(t.value) }

var testNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func newFilterModel(items []list.Item) *appModel {
	model := New(Deps{}).(appModel)
	model.state = stateSelectMovie
	model.movieList = newList("Select Movie")
	model.movieList.SetItems(items)
	return &model
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(appModel)
	if !ok {
		t.Fatalf("expected appModel, got %T", next)
	}
	return out, cmd
}

func TestHandleFilterInput_AppendsRunes(t *testing.T) {
	m := newFilterModel([]list.Item{
		testItem{value: "Dune"},
		testItem{value: "Alien"},
	})

	if !m.handleFilterInput(runes("d")) {
		t.Fatal("expected filter input to be handled")
	}
	if got := m.movieList.FilterValue(); got != "d" {
		t.Fatalf("expected filter value to be %q, got %q", "d", got)
	}

	if !m.handleFilterInput(runes("u")) {
		t.Fatal("expected filter input to be handled")
	}
	if got := m.movieList.FilterValue(); got != "du" {
		t.Fatalf("expected filter value to be %q, got %q", "du", got)
	}
}

func TestHandleFilterInput_Backspace(t *testing.T) {
	m := newFilterModel([]list.Item{
		testItem{value: "Dune"},
		testItem{value: "Alien"},
	})

	_ = m.handleFilterInput(runes("d"))
	_ = m.handleFilterInput(runes("u"))

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyBackspace}) {
		t.Fatal("expected backspace to be handled")
	}
	if got := m.movieList.FilterValue(); got != "d" {
		t.Fatalf("expected filter value to be %q, got %q", "d", got)
	}

	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.handleFilterInput(tea.KeyMsg{Type: tea.KeyBackspace}) {
		t.Fatal("expected backspace on empty filter to fall through")
	}
}

func TestHandleFilterInput_Space(t *testing.T) {
	m := newFilterModel([]list.Item{
		testItem{value: "El Conjuro"},
	})

	_ = m.handleFilterInput(runes("el"))

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeySpace}) {
		t.Fatal("expected space to be handled")
	}
	if got := m.movieList.FilterValue(); got != "el " {
		t.Fatalf("expected filter value to be %q, got %q", "el ", got)
	}
}

func TestHandleFilterInput_IgnoredOutsideLists(t *testing.T) {
	m := New(Deps{}).(appModel)
	m.state = stateSelectSeats

	if m.handleFilterInput(runes("x")) {
		t.Fatal("expected seat map keys not to reach a list filter")
	}
}

func TestBuildMovieItems_RecentFirstAndGenre(t *testing.T) {
	movies := []model.Movie{
		{Id: "1", Title: "Dune", Genre: "Ciencia Ficción"},
		{Id: "2", Title: "Alien", Genre: "Terror"},
		{Id: "3", Title: "Smile", Genre: "Terror"},
	}

	items := buildMovieItems(movies, "", map[string]bool{"3": true})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	first := items[0].(movieItem)
	if first.movie.Id != "3" || !first.recent {
		t.Fatalf("expected recent movie first, got %+v", first)
	}

	items = buildMovieItems(movies, "terror", nil)
	if len(items) != 2 {
		t.Fatalf("expected 2 terror movies, got %d", len(items))
	}
}

func TestBuildDateItems_CurrentFirst(t *testing.T) {
	showtimes := []model.Showtime{
		{Id: "a", Date: "2026-10-14"},
		{Id: "b", Date: "2026-10-15"},
		{Id: "c", Date: "2026-10-15"},
	}

	items := buildDateItems(showtimes, "2026-10-15", "2026-10-14")

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	first := items[0].(dateItem)
	if first.date != "2026-10-15" || first.count != 2 {
		t.Fatalf("expected current date first with 2 showtimes, got %+v", first)
	}
	if got := items[2].(dateItem).Title(); got != "2026-10-14 (today)" {
		t.Fatalf("unexpected title %q", got)
	}
}

func testShowtime() model.Showtime {
	seat := func(id string, row string, number int, seatType model.SeatType) model.Seat {
		return model.Seat{Id: id, Row: row, Number: number, Type: seatType, Status: model.SeatStatusAvailable}
	}
	base, _ := model.ParseDecimal("12.50")
	return model.Showtime{
		Id:    "st-1",
		Date:  "2026-10-20",
		Time:  "19:30:00",
		Price: base,
		Room: &model.Room{
			Id:   "r1",
			Name: "Sala 1",
			Seats: []model.Seat{
				seat("b1", "B", 1, model.SeatVIP),
				seat("a2", "A", 2, model.SeatStandard),
				seat("a1", "A", 1, model.SeatStandard),
				{Id: "a3", Row: "A", Number: 3, Type: model.SeatStandard, Status: model.SeatStatusMaintenance},
			},
		},
	}
}

func newSeatModel(t *testing.T, reserved ...string) appModel {
	t.Helper()
	m := New(Deps{}).(appModel)
	m.now = func() time.Time { return testNow }
	m.openFlow(testShowtime(), booking.ReservationSnapshot{ShowtimeID: "st-1", SeatIDs: reserved})
	m.state = stateSelectSeats
	return m
}

func TestSeatRows_SortsRowsAndNumbers(t *testing.T) {
	m := newSeatModel(t)

	rows := seatRows(m.flow.Seats())

	if len(rows) != 2 || rows[0].label != "A" || rows[1].label != "B" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	for i, want := range []string{"a1", "a2", "a3"} {
		if got := rows[0].seats[i].Seat.Id; got != want {
			t.Fatalf("expected seat %s at %d, got %s", want, i, got)
		}
	}
}

func TestSeatCursor_StartsOnAvailableSeatAndClamps(t *testing.T) {
	m := newSeatModel(t, "a1")
	rows := seatRows(m.flow.Seats())

	view, ok := m.cursor.seat(rows)
	if !ok || view.Seat.Id != "a2" {
		t.Fatalf("expected cursor on a2, got %+v", view)
	}

	c := m.cursor.move(rows, 0, 5)
	if view, _ := c.seat(rows); view.Seat.Id != "a3" {
		t.Fatalf("expected cursor clamped to a3, got %s", view.Seat.Id)
	}
	c = c.move(rows, 1, 0)
	if view, _ := c.seat(rows); view.Seat.Id != "b1" {
		t.Fatalf("expected cursor clamped to b1, got %s", view.Seat.Id)
	}
}

func TestSeatMap_ReservedSeatCannotBeToggled(t *testing.T) {
	m := newSeatModel(t, "a1")
	m.cursor = seatCursor{row: 0, col: 0}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if len(m.flow.SelectedSeats()) != 0 {
		t.Fatal("expected reserved seat to stay unselected")
	}
	if !strings.Contains(m.seatNotice, "A1 is not available (reserved)") {
		t.Fatalf("unexpected notice %q", m.seatNotice)
	}
}

func TestSeatMap_EnterWithoutSeatsStays(t *testing.T) {
	m := newSeatModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.state != stateSelectSeats {
		t.Fatalf("expected to stay on seat map, got state %d", m.state)
	}
	if m.seatNotice != booking.ErrNoSeatsSelected.Error() {
		t.Fatalf("unexpected notice %q", m.seatNotice)
	}
}

func TestSeatMap_RenderShowsEstimatedPrices(t *testing.T) {
	m := newSeatModel(t)

	view := m.renderSeatMap()

	for _, want := range []string{"SCREEN", "vip Q15.00", "premium Q13.75", "estimated from base price", "Maintenance: 1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected seat map to contain %q:\n%s", want, view)
		}
	}
}

// toPayment selects a1 and moves to the payment step with a valid form.
func toPayment(t *testing.T) appModel {
	t.Helper()
	m := newSeatModel(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != statePayment {
		t.Fatalf("expected payment state, got %d (%s)", m.state, m.seatNotice)
	}
	m.inputs[fieldCard].SetValue("4111 1111 1111 1111")
	m.inputs[fieldName].SetValue("Ana López")
	m.inputs[fieldExpiry].SetValue("12/27")
	m.inputs[fieldCVV].SetValue("123")
	m.inputs[fieldEmail].SetValue("ana@example.com")
	return m
}

func TestPayment_ValidationErrorStaysOnForm(t *testing.T) {
	m := toPayment(t)
	m.inputs[fieldCVV].SetValue("1")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Fatal("expected no submission for an invalid form")
	}
	if m.state != statePayment {
		t.Fatalf("expected payment state, got %d", m.state)
	}
	if m.formErr.Field("cvv") == "" {
		t.Fatal("expected a cvv error")
	}
	if !strings.Contains(m.paymentView(), "CVV must have 3 or 4 digits") {
		t.Fatal("expected cvv error in the view")
	}
}

func TestPayment_RejectionKeepsFormAndShowsServerMessage(t *testing.T) {
	m := toPayment(t)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateSubmitting || cmd == nil {
		t.Fatalf("expected submission in flight, got state %d", m.state)
	}
	if !m.flow.Pending() {
		t.Fatal("expected flow to be pending")
	}

	const serverMessage = "Los asientos seleccionados ya no están disponibles"
	m, _ = press(t, m, bookingMsg{err: &service.APIError{StatusCode: 409, Status: "409 Conflict", Message: serverMessage}})

	if m.state != statePayment {
		t.Fatalf("expected to return to payment, got %d", m.state)
	}
	if m.flow.Step() != booking.StepEnteringPayment {
		t.Fatalf("expected flow in entering-payment, got %s", m.flow.Step())
	}
	if got := m.inputs[fieldCard].Value(); got != "4111 1111 1111 1111" {
		t.Fatalf("expected card number kept, got %q", got)
	}
	if got := m.inputs[fieldEmail].Value(); got != "ana@example.com" {
		t.Fatalf("expected email kept, got %q", got)
	}
	if !strings.Contains(m.paymentView(), serverMessage) {
		t.Fatalf("expected verbatim server message in view:\n%s", m.paymentView())
	}
}

func TestPayment_EscKeepsFormForNextVisit(t *testing.T) {
	m := toPayment(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateSelectSeats {
		t.Fatalf("expected seat map, got %d", m.state)
	}
	if len(m.flow.SelectedSeats()) != 1 {
		t.Fatal("expected selection kept")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.inputs[fieldExpiry].Value(); got != "12/27" {
		t.Fatalf("expected expiry restored, got %q", got)
	}
}

func TestPayment_ConfirmationShowsTransaction(t *testing.T) {
	m := toPayment(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	total, _ := model.ParseDecimal("13.13")
	m, _ = press(t, m, bookingMsg{booking: model.Booking{
		Id:            "b-1",
		TransactionID: "TXN-42",
		TotalPrice:    total,
		BookingSeats:  []model.BookingSeat{{Seat: model.Seat{Row: "A", Number: 1}}},
	}})

	if m.state != stateConfirmed {
		t.Fatalf("expected confirmed, got %d", m.state)
	}
	view := m.confirmationView()
	for _, want := range []string{"TXN-42", "A1", "Q13.13", "estimated"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected confirmation to contain %q:\n%s", want, view)
		}
	}
}

func TestCardNumberInputIsFormatted(t *testing.T) {
	m := toPayment(t)
	m.inputs[fieldCard].SetValue("")
	m.inputs[fieldCard].Focus()

	for _, r := range "41111111" {
		m, _ = press(t, m, runes(string(r)))
	}

	if got := m.inputs[fieldCard].Value(); got != "4111 1111" {
		t.Fatalf("expected grouped digits, got %q", got)
	}
}

func TestReservationsUnavailable_OffersRetry(t *testing.T) {
	m := New(Deps{}).(appModel)
	m.state = stateLoadingSeats

	err := fmt.Errorf("%w: %w", booking.ErrReservationsUnavailable, errors.New("boom"))
	next, cmd := m.Update(seatsMsg{err: err})
	m = next.(appModel)
	m, _ = press(t, m, cmd())

	if m.state != stateError || !m.canRetry || m.retry != stateLoadingSeats {
		t.Fatalf("expected retryable error, got state %d retry %v", m.state, m.canRetry)
	}
	if !strings.Contains(m.View(), "reserved seats could not be loaded") {
		t.Fatalf("expected reservation error in view:\n%s", m.View())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateSelectShowtime {
		t.Fatalf("expected showtime list after esc, got %d", m.state)
	}
}

func TestDegradedSnapshotShowsWarning(t *testing.T) {
	m := New(Deps{}).(appModel)
	m.openFlow(testShowtime(), booking.ReservationSnapshot{ShowtimeID: "st-1", Degraded: true})

	if !strings.Contains(m.seatNotice, "could not be loaded") {
		t.Fatalf("expected degraded warning, got %q", m.seatNotice)
	}
}
