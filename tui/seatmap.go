package tui

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"cineconnect-cli/booking"
	"cineconnect-cli/model"
)

type seatRow struct {
	label string
	seats []booking.SeatView
}

// seatCursor points at seats[col] of rows[row].
type seatCursor struct {
	row int
	col int
}

// seatRows groups views by row label. Rows sort by label length then
// text so "B" comes before "AA"; seats sort by number.
func seatRows(views []booking.SeatView) []seatRow {
	grouped := lo.GroupBy(views, func(v booking.SeatView) string { return v.Seat.Row })
	labels := lo.Keys(grouped)
	sort.Slice(labels, func(i, j int) bool {
		if len(labels[i]) != len(labels[j]) {
			return len(labels[i]) < len(labels[j])
		}
		return labels[i] < labels[j]
	})
	rows := make([]seatRow, 0, len(labels))
	for _, label := range labels {
		seats := grouped[label]
		sort.SliceStable(seats, func(i, j int) bool { return seats[i].Seat.Number < seats[j].Seat.Number })
		rows = append(rows, seatRow{label: label, seats: seats})
	}
	return rows
}

// newSeatCursor starts on the first available seat, or the first seat.
func newSeatCursor(views []booking.SeatView) seatCursor {
	for r, row := range seatRows(views) {
		for c, view := range row.seats {
			if view.State == booking.SeatAvailable {
				return seatCursor{row: r, col: c}
			}
		}
	}
	return seatCursor{}
}

func (c seatCursor) move(rows []seatRow, dr int, dc int) seatCursor {
	if len(rows) == 0 {
		return seatCursor{}
	}
	c.row = clampIndex(c.row+dr, len(rows))
	c.col = clampIndex(c.col+dc, len(rows[c.row].seats))
	return c
}

func (c seatCursor) seat(rows []seatRow) (booking.SeatView, bool) {
	if c.row < 0 || c.row >= len(rows) {
		return booking.SeatView{}, false
	}
	seats := rows[c.row].seats
	if c.col < 0 || c.col >= len(seats) {
		return booking.SeatView{}, false
	}
	return seats[c.col], true
}

func clampIndex(i int, n int) int {
	if n <= 0 {
		return 0
	}
	return lo.Clamp(i, 0, n-1)
}

func (m appModel) handleSeatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.flow == nil {
		return m, nil, false
	}
	rows := seatRows(m.flow.Seats())
	switch msg.String() {
	case "up", "k":
		m.cursor = m.cursor.move(rows, -1, 0)
		return m, nil, true
	case "down", "j":
		m.cursor = m.cursor.move(rows, 1, 0)
		return m, nil, true
	case "left", "h":
		m.cursor = m.cursor.move(rows, 0, -1)
		return m, nil, true
	case "right", "l":
		m.cursor = m.cursor.move(rows, 0, 1)
		return m, nil, true
	case " ", "x":
		view, ok := m.cursor.seat(rows)
		if !ok {
			return m, nil, true
		}
		m.seatNotice = ""
		if err := m.flow.Toggle(view.Seat.Id); err != nil {
			m.seatNotice = seatError(view, err)
		}
		return m, nil, true
	case "n":
		m.showSeatNumbers = !m.showSeatNumbers
		return m, nil, true
	case "ctrl+r":
		m.seatNotice = "Refreshing seat availability..."
		return m, m.fetchReservationsCmd(m.flow.Showtime().Id), true
	case "enter":
		if _, err := m.flow.ProceedToPayment(); err != nil {
			m.seatNotice = err.Error()
			return m, nil, true
		}
		m.seatNotice = ""
		m.startPayment()
		m.state = statePayment
		return m, textinput.Blink, true
	}
	return m, nil, false
}

func seatError(view booking.SeatView, err error) string {
	if errors.Is(err, booking.ErrSeatUnavailable) && view.Reason != "" {
		return fmt.Sprintf("%s is not available (%s)", view.Seat.Label(), view.Reason)
	}
	return fmt.Sprintf("%s: %v", view.Seat.Label(), err)
}

func (m appModel) renderSeatMap() string {
	if m.flow == nil {
		return "No seat map data."
	}
	views := m.flow.Seats()
	rows := seatRows(views)
	if len(rows) == 0 {
		return "No seat map data."
	}

	cols := 0
	rowWidth := 2
	for _, row := range rows {
		for _, view := range row.seats {
			cols = max(cols, view.Seat.Number)
		}
		rowWidth = max(rowWidth, len(row.label))
	}
	cellWidth := 2
	if m.showSeatNumbers {
		cellWidth = max(cellWidth, len(strconv.Itoa(cols)))
	}
	current, hasCurrent := m.cursor.seat(rows)

	var b strings.Builder
	seatStyleAvailable := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	seatStyleOccupied := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	seatStyleMaintenance := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	seatStyleSelected := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	for _, row := range rows {
		byNumber := lo.KeyBy(row.seats, func(v booking.SeatView) int { return v.Seat.Number })
		b.WriteString(fmt.Sprintf("%*s ", rowWidth, row.label))
		for n := 1; n <= cols; n++ {
			view, ok := byNumber[n]
			if !ok {
				b.WriteString(padCell("", cellWidth))
				if n < cols {
					b.WriteString(" ")
				}
				continue
			}
			text := seatToken(view)
			if m.showSeatNumbers {
				text = strconv.Itoa(view.Seat.Number)
			}
			rendered := padCell(text, cellWidth)
			switch {
			case view.State == booking.SeatSelected:
				rendered = seatStyleSelected.Render(rendered)
			case view.State == booking.SeatAvailable:
				rendered = seatStyleAvailable.Render(rendered)
			case view.Reason == booking.ReasonMaintenance:
				rendered = seatStyleMaintenance.Render(rendered)
			default:
				rendered = seatStyleOccupied.Render(rendered)
			}
			if hasCurrent && view.Seat.Id == current.Seat.Id {
				rendered = cursorStyle.Render(rendered)
			}
			b.WriteString(rendered)
			if n < cols {
				b.WriteString(" ")
			}
		}
		b.WriteString(fmt.Sprintf(" %*s\n", rowWidth, row.label))
	}

	gridWidth := cols*(cellWidth+1) - 1
	screenStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("214"))
	screenBorderStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Background(lipgloss.Color("236"))

	screenBar := screenBarBlock(gridWidth, "SCREEN")

	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", rowWidth+1))
	b.WriteString(screenBorderStyle.Render(screenBar.top))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", rowWidth+1))
	b.WriteString(screenStyle.Render(screenBar.mid))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", rowWidth+1))
	b.WriteString(screenBorderStyle.Render(screenBar.bot))
	b.WriteString("\n\n")

	legend := "Legend: [] standard • PP premium • VV vip • ** selected • XX occupied • ## maintenance"
	if m.showSeatNumbers {
		legend = "Legend: green available • yellow selected • red occupied • grey maintenance"
	}
	counts := booking.CountStates(views)
	maintenance := lo.CountBy(views, func(v booking.SeatView) bool { return v.Reason == booking.ReasonMaintenance })
	total := len(views)
	percent := float64(counts[booking.SeatAvailable]+counts[booking.SeatSelected]) / float64(max(1, total)) * 100
	countLine := fmt.Sprintf("Available: %d • Selected: %d • Occupied: %d • Maintenance: %d • Total: %d • %.0f%% free",
		counts[booking.SeatAvailable], counts[booking.SeatSelected], counts[booking.SeatOccupied]-maintenance, maintenance, total, percent)

	lines := []string{b.String() + hint(legend), hint(countLine)}
	if hasCurrent {
		lines = append(lines, seatDetail(current))
	}
	lines = append(lines, m.priceLine(), m.selectionLine())
	if m.seatNotice != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(m.seatNotice))
	}
	return strings.Join(lines, "\n")
}

func seatToken(view booking.SeatView) string {
	switch {
	case view.State == booking.SeatSelected:
		return "**"
	case view.Reason == booking.ReasonMaintenance:
		return "##"
	case view.State == booking.SeatOccupied:
		return "XX"
	}
	switch view.Seat.Type {
	case model.SeatPremium:
		return "PP"
	case model.SeatVIP:
		return "VV"
	default:
		return "[]"
	}
}

func seatDetail(view booking.SeatView) string {
	state := string(view.State)
	if view.Reason != "" {
		state = view.Reason
	}
	seatType := string(view.Seat.Type)
	if seatType == "" {
		seatType = string(model.SeatStandard)
	}
	return fmt.Sprintf("Seat %s • %s • %s", view.Seat.Label(), seatType, state)
}

func (m appModel) priceLine() string {
	table, err := m.flow.Prices()
	if err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("Prices unavailable: " + err.Error())
	}
	parts := make([]string, 0, len(model.SeatTypes))
	for _, seatType := range model.SeatTypes {
		price, err := table.For(seatType)
		if err != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", seatType, formatPrice(price)))
	}
	line := "Prices: " + strings.Join(parts, " • ")
	if table.Estimated() {
		line += " (estimated from base price)"
	}
	return hint(line)
}

func (m appModel) selectionLine() string {
	seats := m.flow.SelectedSeats()
	if len(seats) == 0 {
		return hint("No seats selected.")
	}
	labels := lo.Map(seats, func(s model.Seat, _ int) string { return s.Label() })
	line := fmt.Sprintf("Selected: %s", strings.Join(labels, ", "))
	if table, err := m.flow.Prices(); err == nil {
		if quote, err := table.Quote(seats); err == nil {
			line += " • Subtotal " + formatPrice(quote.Subtotal)
		}
	}
	return lipgloss.NewStyle().Bold(true).Render(line)
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len(text) >= width {
		return text[:width]
	}
	padding := width - len(text)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

type screenBlock struct {
	top string
	mid string
	bot string
}

func screenBarBlock(width int, label string) screenBlock {
	if width < len(label)+4 {
		width = len(label) + 4
	}
	if width < 10 {
		width = 10
	}

	border := "╭" + strings.Repeat("─", width-2) + "╮"
	bottom := "╰" + strings.Repeat("─", width-2) + "╯"

	labelText := " " + label + " "
	padding := width - len(labelText) - 2
	left := padding / 2
	right := padding - left
	mid := "│" + strings.Repeat(" ", left) + labelText + strings.Repeat(" ", right) + "│"
	return screenBlock{top: border, mid: mid, bot: bottom}
}
