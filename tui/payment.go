package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cineconnect-cli/booking"
)

const (
	fieldCard = iota
	fieldName
	fieldExpiry
	fieldCVV
	fieldEmail
)

type paymentField struct {
	label       string
	key         string
	placeholder string
	limit       int
}

var paymentFields = []paymentField{
	fieldCard:   {label: "Card number", key: "card_number", placeholder: "1234 5678 9012 3456", limit: 19},
	fieldName:   {label: "Name on card", placeholder: "Ana López", limit: 60},
	fieldExpiry: {label: "Expiry", key: "expiry", placeholder: "MM/YY", limit: 5},
	fieldCVV:    {label: "CVV", key: "cvv", placeholder: "123", limit: 4},
	fieldEmail:  {label: "Email", key: "email", placeholder: "receipt goes to your account email", limit: 120},
}

// startPayment builds the inputs from the form stored in the flow, so
// values survive a trip back to the seat map.
func (m *appModel) startPayment() {
	form := m.flow.Form()
	values := []string{form.CardNumber, form.CardName, form.Expiry, form.CVV, form.Email}
	m.inputs = make([]textinput.Model, len(paymentFields))
	for i, field := range paymentFields {
		ti := textinput.New()
		ti.Placeholder = field.placeholder
		ti.CharLimit = field.limit
		ti.Prompt = ""
		if i == fieldCVV {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ti.SetValue(values[i])
		m.inputs[i] = ti
	}
	m.focus = fieldCard
	m.inputs[m.focus].Focus()
	m.formErr = nil
	m.paymentNotice = ""
}

func (m appModel) formFromInputs() booking.PaymentForm {
	value := func(i int) string {
		if i >= len(m.inputs) {
			return ""
		}
		return m.inputs[i].Value()
	}
	return booking.PaymentForm{
		CardNumber: value(fieldCard),
		CardName:   value(fieldName),
		Expiry:     value(fieldExpiry),
		CVV:        value(fieldCVV),
		Email:      value(fieldEmail),
	}
}

func (m appModel) handlePaymentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "esc":
		if m.flow == nil || m.flow.Pending() {
			return m, nil, true
		}
		_ = m.flow.SetForm(m.formFromInputs())
		if err := m.flow.BackToSeats(); err != nil {
			m.paymentNotice = err.Error()
			return m, nil, true
		}
		m.state = stateSelectSeats
		return m, nil, true
	case "tab", "down":
		return m, m.focusField(m.focus + 1), true
	case "shift+tab", "up":
		return m, m.focusField(m.focus - 1 + len(m.inputs)), true
	case "enter":
		next, cmd := m.submitPayment()
		return next, cmd, true
	}
	next, cmd := m.updatePaymentInput(msg)
	return next, cmd, true
}

func (m *appModel) focusField(i int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.inputs[m.focus].Blur()
	m.focus = i % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m appModel) updatePaymentInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		switch m.focus {
		case fieldCard:
			m.inputs[fieldCard].SetValue(booking.FormatCardNumber(m.inputs[fieldCard].Value()))
			m.inputs[fieldCard].CursorEnd()
		case fieldExpiry:
			m.inputs[fieldExpiry].SetValue(booking.FormatExpiry(m.inputs[fieldExpiry].Value()))
			m.inputs[fieldExpiry].CursorEnd()
		}
	}
	return m, cmd
}

func (m appModel) submitPayment() (tea.Model, tea.Cmd) {
	if m.flow == nil {
		return m, nil
	}
	if m.session != nil && !m.session.Authenticated() {
		m.paymentNotice = "You need to log in to buy tickets. Run `cineconnect login` and start again."
		return m, nil
	}
	if err := m.flow.SetForm(m.formFromInputs()); err != nil {
		m.paymentNotice = err.Error()
		return m, nil
	}
	req, err := m.flow.PrepareSubmission(m.now())
	if err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			m.formErr = verr
			m.paymentNotice = ""
			return m, nil
		}
		m.paymentNotice = err.Error()
		return m, nil
	}
	m.formErr = nil
	m.paymentNotice = ""
	m.state = stateSubmitting
	return m, tea.Batch(m.submitCmd(req), m.spinner.Tick)
}

// finishSubmission applies the server's answer. A rejection returns to the
// payment step with the inputs untouched.
func (m appModel) finishSubmission(msg bookingMsg) (tea.Model, tea.Cmd) {
	if m.flow == nil {
		return m, nil
	}
	if msg.err != nil {
		m.flow.Reject(msg.err)
		m.state = statePayment
		return m, textinput.Blink
	}
	if err := m.flow.Complete(msg.booking); err != nil {
		return m, errCmd(err)
	}
	m.receiptNote = ""
	m.state = stateConfirmed
	return m, nil
}

func (m appModel) paymentView() string {
	if m.flow == nil {
		return ""
	}
	quote := m.flow.Quote()
	bold := lipgloss.NewStyle().Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	var b strings.Builder
	b.WriteString(bold.Render("Order summary"))
	b.WriteString("\n")
	for _, line := range quote.Lines {
		b.WriteString(fmt.Sprintf("  %-4s %-9s %s\n", line.Seat.Label(), line.Seat.Type, formatPrice(line.Price)))
	}
	b.WriteString(fmt.Sprintf("  Subtotal %s • Service fee %s • ", formatPrice(quote.Subtotal), formatPrice(quote.Fee)))
	b.WriteString(bold.Render("Total " + formatPrice(quote.Total)))
	b.WriteString("\n")
	if quote.Source == booking.SourceEstimated {
		b.WriteString(hint("  Prices are estimated from the base price. The server confirms the amount charged."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, field := range paymentFields {
		if i >= len(m.inputs) {
			break
		}
		label := fmt.Sprintf("%-13s", field.label)
		if i == m.focus {
			label = bold.Render(label)
		}
		b.WriteString(label + " " + m.inputs[i].View())
		b.WriteString("\n")
		if msg := m.formErr.Field(field.key); msg != "" {
			b.WriteString(strings.Repeat(" ", 14) + errStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	if rejection := m.flow.RejectionMessage(); rejection != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Bold(true).Render(rejection))
		b.WriteString("\n")
		b.WriteString(hint("Fix the details or go back to pick other seats, then press enter to try again."))
		b.WriteString("\n")
	}
	if m.paymentNotice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(m.paymentNotice))
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) confirmationView() string {
	if m.flow == nil {
		return ""
	}
	bk, _ := m.flow.Booking()
	quote := m.flow.Quote()

	seats := bk.SeatLabels()
	if len(seats) == 0 {
		seats = quote.SeatLabels()
	}
	total := bk.TotalPrice
	if total.IsZero() {
		total = quote.Total
	}

	chip := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("2")).
		Padding(0, 2)
	lines := []string{
		chip.Render("Purchase confirmed"),
		"",
		fmt.Sprintf("Transaction: %s", bk.TransactionID),
		fmt.Sprintf("Seats:       %s", strings.Join(seats, ", ")),
		fmt.Sprintf("Total:       %s", formatPrice(total)),
	}
	if bk.CustomerEmail != "" {
		lines = append(lines, fmt.Sprintf("Email:       %s", bk.CustomerEmail))
	}
	lines = append(lines, "")
	if quote.Source == booking.SourceEstimated {
		lines = append(lines, hint("Seat prices shown before payment were estimated from the base price."))
	} else {
		lines = append(lines, hint("Seat prices came from the showtime's ticket prices."))
	}
	if m.receiptNote != "" {
		lines = append(lines, "", m.receiptNote)
	}
	return strings.Join(lines, "\n")
}
