package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"cineconnect-cli/model"
	"cineconnect-cli/service"
)

type Step int

const (
	StepSelectingSeats Step = iota
	StepEnteringPayment
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepSelectingSeats:
		return "selecting-seats"
	case StepEnteringPayment:
		return "entering-payment"
	case StepConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	ErrNoSeatsSelected   = errors.New("select at least one seat")
	ErrFlowClosed        = errors.New("booking is already confirmed")
	ErrWrongStep         = errors.New("action not allowed at this step")
	ErrSubmissionPending = errors.New("a submission is already in flight")
)

// Submitter commits a booking. *service.Client satisfies it.
type Submitter interface {
	CreateBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error)
}

// ReceiptSource fetches the receipt reference of a confirmed booking.
type ReceiptSource interface {
	GetReceipt(ctx context.Context, bookingID string) (model.Receipt, error)
}

// Flow drives one purchase through seat selection, payment and
// confirmation. It is not safe for concurrent use; the TUI owns it from
// its update loop.
type Flow struct {
	showtime     model.Showtime
	reservations ReservationSnapshot
	layout       []model.Seat
	seats        []SeatView
	selection    Selection
	prices       PriceTable
	priceErr     error

	step         Step
	quote        Quote
	form         PaymentForm
	accountEmail string
	pending      bool
	rejection    error
	booking      model.Booking

	log logrus.FieldLogger
}

type FlowOption func(*Flow)

// WithAccountEmail sets the email used when the form leaves it empty.
func WithAccountEmail(email string) FlowOption {
	return func(f *Flow) { f.accountEmail = email }
}

func WithFlowLogger(log logrus.FieldLogger) FlowOption {
	return func(f *Flow) {
		if log != nil {
			f.log = log
		}
	}
}

// Layout returns the seats of the embedded room, or the showtime's own seat
// list when the room has none.
func Layout(showtime model.Showtime) []model.Seat {
	if showtime.Room != nil && len(showtime.Room.Seats) > 0 {
		return showtime.Room.Seats
	}
	return showtime.Seats
}

// NewFlow starts a purchase for showtime.
func NewFlow(showtime model.Showtime, reservations ReservationSnapshot, opts ...FlowOption) *Flow {
	layout := Layout(showtime)
	f := &Flow{
		showtime:     showtime,
		reservations: reservations,
		layout:       layout,
		seats:        ResolveSeats(layout, reservations.SeatIDs),
		step:         StepSelectingSeats,
		log:          logrus.StandardLogger(),
	}
	f.prices, f.priceErr = ResolvePriceTable(showtime)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) Step() Step {
	return f.step
}

func (f *Flow) Showtime() model.Showtime {
	return f.showtime
}

// Seats returns the seat views with the current selection applied.
func (f *Flow) Seats() []SeatView {
	return MarkSelected(f.seats, f.selection)
}

func (f *Flow) SelectedSeats() []model.Seat {
	return f.selection.Seats(f.seats)
}

// Degraded reports whether seat states rest on a reservation list that
// could not be fetched.
func (f *Flow) Degraded() bool {
	return f.reservations.Degraded
}

func (f *Flow) Prices() (PriceTable, error) {
	return f.prices, f.priceErr
}

// Toggle selects or releases seatID while seats are being picked.
func (f *Flow) Toggle(seatID string) error {
	if err := f.expect(StepSelectingSeats); err != nil {
		return err
	}
	for _, view := range f.seats {
		if view.Seat.Id == seatID {
			return f.selection.Toggle(view)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownSeat, seatID)
}

// Refresh applies a newer reservation list. Selected seats that were taken
// meanwhile are released and their labels returned.
func (f *Flow) Refresh(reservations ReservationSnapshot) ([]string, error) {
	if err := f.expect(StepSelectingSeats); err != nil {
		return nil, err
	}
	f.reservations = reservations
	f.seats = ResolveSeats(f.layout, reservations.SeatIDs)
	return f.selection.Retain(f.seats), nil
}

// ProceedToPayment prices the selection and moves to the payment step.
func (f *Flow) ProceedToPayment() (Quote, error) {
	if err := f.expect(StepSelectingSeats); err != nil {
		return Quote{}, err
	}
	if f.selection.Len() == 0 {
		return Quote{}, ErrNoSeatsSelected
	}
	if f.priceErr != nil {
		return Quote{}, f.priceErr
	}
	quote, err := f.prices.Quote(f.SelectedSeats())
	if err != nil {
		return Quote{}, err
	}
	f.quote = quote
	f.rejection = nil
	f.step = StepEnteringPayment

	entry := f.log.WithFields(logrus.Fields{
		"showtime_id":    f.showtime.Id,
		"seats":          quote.SeatLabels(),
		"pricing_source": string(quote.Source),
		"total":          quote.Total.String(),
	})
	if quote.Source == SourceEstimated {
		entry.Warn("quoting with estimated prices")
	} else {
		entry.Info("booking quoted")
	}
	return quote, nil
}

// BackToSeats returns to seat selection keeping the selection.
func (f *Flow) BackToSeats() error {
	if err := f.expect(StepEnteringPayment); err != nil {
		return err
	}
	if f.pending {
		return ErrSubmissionPending
	}
	f.step = StepSelectingSeats
	return nil
}

func (f *Flow) Quote() Quote {
	return f.quote
}

// SetForm records the payment form as typed.
func (f *Flow) SetForm(form PaymentForm) error {
	if err := f.expect(StepEnteringPayment); err != nil {
		return err
	}
	f.form = form
	return nil
}

func (f *Flow) Form() PaymentForm {
	return f.form
}

// PrepareSubmission validates the form and returns the booking request to
// send. The flow stays in entering-payment until Complete or Reject.
func (f *Flow) PrepareSubmission(now time.Time) (model.BookingRequest, error) {
	if err := f.expect(StepEnteringPayment); err != nil {
		return model.BookingRequest{}, err
	}
	if f.pending {
		return model.BookingRequest{}, ErrSubmissionPending
	}
	email, err := f.form.Validate(now, f.accountEmail)
	if err != nil {
		return model.BookingRequest{}, err
	}
	f.pending = true
	f.rejection = nil
	return model.BookingRequest{
		ShowtimeID:    f.showtime.Id,
		SeatIDs:       f.quote.SeatIDs(),
		PaymentMethod: model.PaymentMethodCard,
		CustomerEmail: email,
	}, nil
}

// Complete records the server's booking and closes the flow.
func (f *Flow) Complete(booking model.Booking) error {
	if err := f.expect(StepEnteringPayment); err != nil {
		return err
	}
	f.pending = false
	f.booking = booking
	f.step = StepConfirmed

	total := booking.TotalPrice
	if total.IsZero() {
		total = f.quote.Total
	}
	f.log.WithFields(logrus.Fields{
		"showtime_id":    f.showtime.Id,
		"seats":          f.quote.SeatLabels(),
		"pricing_source": string(f.quote.Source),
		"total":          total.String(),
		"transaction_id": booking.TransactionID,
		"degraded":       f.reservations.Degraded,
	}).Info("booking confirmed")
	return nil
}

// Reject records a failed submission. The form and selection are kept.
func (f *Flow) Reject(err error) {
	if f.step != StepEnteringPayment {
		return
	}
	f.pending = false
	f.rejection = err
	f.log.WithError(err).WithFields(logrus.Fields{
		"showtime_id":    f.showtime.Id,
		"seats":          f.quote.SeatLabels(),
		"pricing_source": string(f.quote.Source),
	}).Warn("booking rejected")
}

func (f *Flow) Pending() bool {
	return f.pending
}

// Rejection returns the last submission failure, if any.
func (f *Flow) Rejection() error {
	return f.rejection
}

// RejectionMessage is the failure as shown to the user. Server messages
// come through unmodified.
func (f *Flow) RejectionMessage() string {
	return service.UserMessage(f.rejection)
}

// Submit validates, sends and records the booking in one blocking call.
func (f *Flow) Submit(ctx context.Context, submitter Submitter, now time.Time) (model.Booking, error) {
	req, err := f.PrepareSubmission(now)
	if err != nil {
		return model.Booking{}, err
	}
	booking, err := submitter.CreateBooking(ctx, req)
	if err != nil {
		f.Reject(err)
		return model.Booking{}, err
	}
	if err := f.Complete(booking); err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

// Booking returns the confirmed booking.
func (f *Flow) Booking() (model.Booking, bool) {
	return f.booking, f.step == StepConfirmed
}

// Receipt fetches the receipt reference of the confirmed booking.
func (f *Flow) Receipt(ctx context.Context, src ReceiptSource) (model.Receipt, error) {
	if f.step != StepConfirmed {
		return model.Receipt{}, ErrWrongStep
	}
	return src.GetReceipt(ctx, f.booking.Id)
}

func (f *Flow) expect(step Step) error {
	if f.step == StepConfirmed {
		return ErrFlowClosed
	}
	if f.step != step {
		return fmt.Errorf("%w: %s", ErrWrongStep, f.step)
	}
	return nil
}
