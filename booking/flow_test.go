package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cineconnect-cli/model"
	"cineconnect-cli/service"
)

type submitterFunc func(ctx context.Context, req model.BookingRequest) (model.Booking, error)

func (f submitterFunc) CreateBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error) {
	return f(ctx, req)
}

type receiptFunc func(ctx context.Context, id string) (model.Receipt, error)

func (f receiptFunc) GetReceipt(ctx context.Context, id string) (model.Receipt, error) {
	return f(ctx, id)
}

func newTestFlow(t *testing.T, reserved ...string) (*Flow, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	showtime := model.Showtime{
		Id:    "st-1",
		Price: mustDecimal(t, "12.50"),
		Room: &model.Room{
			Id: "r1",
			Seats: []model.Seat{
				seat("1", "A", 1, model.SeatStandard),
				seat("2", "A", 2, model.SeatVIP),
				seat("3", "A", 3, model.SeatPremium),
			},
		},
	}
	snap := ReservationSnapshot{ShowtimeID: "st-1", SeatIDs: reserved}
	return NewFlow(showtime, snap, WithAccountEmail("cuenta@example.com"), WithFlowLogger(logger)), hook
}

func TestFlow_ZeroSeatsBlocksPayment(t *testing.T) {
	flow, _ := newTestFlow(t)

	_, err := flow.ProceedToPayment()

	assert.ErrorIs(t, err, ErrNoSeatsSelected)
	assert.Equal(t, StepSelectingSeats, flow.Step())
}

func TestFlow_ReservedSeatCannotBeSelected(t *testing.T) {
	flow, _ := newTestFlow(t, "1")

	assert.ErrorIs(t, flow.Toggle("1"), ErrSeatUnavailable)
	assert.ErrorIs(t, flow.Toggle("nope"), ErrUnknownSeat)
	require.NoError(t, flow.Toggle("2"))
	assert.Equal(t, SeatSelected, flow.Seats()[1].State)
}

func TestFlow_ProceedCarriesQuote(t *testing.T) {
	flow, _ := newTestFlow(t)
	require.NoError(t, flow.Toggle("1"))
	require.NoError(t, flow.Toggle("2"))

	quote, err := flow.ProceedToPayment()

	require.NoError(t, err)
	assert.Equal(t, StepEnteringPayment, flow.Step())
	assert.Equal(t, "27.50", quote.Subtotal.String())
	assert.Equal(t, SourceEstimated, quote.Source)
	assert.ErrorIs(t, flow.Toggle("3"), ErrWrongStep)
}

func TestFlow_BackToSeatsKeepsSelection(t *testing.T) {
	flow, _ := newTestFlow(t)
	require.NoError(t, flow.Toggle("3"))
	_, err := flow.ProceedToPayment()
	require.NoError(t, err)

	require.NoError(t, flow.BackToSeats())

	assert.Equal(t, StepSelectingSeats, flow.Step())
	assert.Len(t, flow.SelectedSeats(), 1)
}

func TestFlow_ValidationFailureStaysInPayment(t *testing.T) {
	flow, _ := newTestFlow(t)
	require.NoError(t, flow.Toggle("1"))
	_, err := flow.ProceedToPayment()
	require.NoError(t, err)
	form := validForm()
	form.CardNumber = "4111 1111 1111 111"
	require.NoError(t, flow.SetForm(form))

	called := false
	_, err = flow.Submit(context.Background(), submitterFunc(func(context.Context, model.BookingRequest) (model.Booking, error) {
		called = true
		return model.Booking{}, nil
	}), paymentNow)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, called)
	assert.Equal(t, StepEnteringPayment, flow.Step())
	assert.False(t, flow.Pending())
}

func TestFlow_RejectionKeepsFormAndServerMessage(t *testing.T) {
	for _, status := range []int{409, 400} {
		flow, hook := newTestFlow(t)
		require.NoError(t, flow.Toggle("2"))
		_, err := flow.ProceedToPayment()
		require.NoError(t, err)
		form := validForm()
		require.NoError(t, flow.SetForm(form))

		const message = "El asiento A2 ya fue reservado por otro usuario"
		rejection := &service.APIError{StatusCode: status, Message: message}
		_, err = flow.Submit(context.Background(), submitterFunc(func(context.Context, model.BookingRequest) (model.Booking, error) {
			return model.Booking{}, rejection
		}), paymentNow)

		require.Error(t, err)
		assert.Equal(t, StepEnteringPayment, flow.Step())
		assert.Equal(t, form, flow.Form())
		assert.Equal(t, message, flow.RejectionMessage())
		assert.ErrorIs(t, flow.Rejection(), rejection)
		assert.False(t, flow.Pending())
		assert.Equal(t, "booking rejected", hook.LastEntry().Message)
	}
}

func TestFlow_NetworkFailureIsARejection(t *testing.T) {
	flow, _ := newTestFlow(t)
	require.NoError(t, flow.Toggle("1"))
	_, err := flow.ProceedToPayment()
	require.NoError(t, err)
	require.NoError(t, flow.SetForm(validForm()))

	_, err = flow.Submit(context.Background(), submitterFunc(func(context.Context, model.BookingRequest) (model.Booking, error) {
		return model.Booking{}, errors.Join(service.ErrUnreachable, errors.New("connection refused"))
	}), paymentNow)

	require.Error(t, err)
	assert.Equal(t, StepEnteringPayment, flow.Step())
	assert.Contains(t, flow.RejectionMessage(), "cannot reach")
}

func TestFlow_ConfirmedIsTerminalAndAudited(t *testing.T) {
	flow, hook := newTestFlow(t)
	require.NoError(t, flow.Toggle("1"))
	require.NoError(t, flow.Toggle("2"))
	_, err := flow.ProceedToPayment()
	require.NoError(t, err)
	form := validForm()
	form.Email = ""
	require.NoError(t, flow.SetForm(form))

	var sent model.BookingRequest
	booking, err := flow.Submit(context.Background(), submitterFunc(func(_ context.Context, req model.BookingRequest) (model.Booking, error) {
		sent = req
		return model.Booking{Id: "b-1", TransactionID: "TX-1", TotalPrice: mustDecimal(t, "28.88")}, nil
	}), paymentNow)
	require.NoError(t, err)

	assert.Equal(t, "st-1", sent.ShowtimeID)
	assert.Equal(t, []string{"1", "2"}, sent.SeatIDs)
	assert.Equal(t, model.PaymentMethodCard, sent.PaymentMethod)
	assert.Equal(t, "cuenta@example.com", sent.CustomerEmail)

	assert.Equal(t, StepConfirmed, flow.Step())
	got, ok := flow.Booking()
	assert.True(t, ok)
	assert.Equal(t, booking, got)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "booking confirmed", entry.Message)
	assert.Equal(t, "estimated", entry.Data["pricing_source"])
	assert.Equal(t, "TX-1", entry.Data["transaction_id"])
	assert.Equal(t, "28.88", entry.Data["total"])

	assert.ErrorIs(t, flow.Toggle("3"), ErrFlowClosed)
	assert.ErrorIs(t, flow.SetForm(validForm()), ErrFlowClosed)
	assert.ErrorIs(t, flow.BackToSeats(), ErrFlowClosed)
	_, err = flow.PrepareSubmission(paymentNow)
	assert.ErrorIs(t, err, ErrFlowClosed)
}

func TestFlow_ReceiptNeedsConfirmation(t *testing.T) {
	flow, _ := newTestFlow(t)
	src := receiptFunc(func(_ context.Context, id string) (model.Receipt, error) {
		return model.Receipt{DownloadURL: "http://host/receipts/" + id}, nil
	})

	_, err := flow.Receipt(context.Background(), src)
	assert.ErrorIs(t, err, ErrWrongStep)

	require.NoError(t, flow.Toggle("1"))
	_, err = flow.ProceedToPayment()
	require.NoError(t, err)
	require.NoError(t, flow.SetForm(validForm()))
	_, err = flow.PrepareSubmission(paymentNow)
	require.NoError(t, err)
	require.NoError(t, flow.Complete(model.Booking{Id: "b-7"}))

	receipt, err := flow.Receipt(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "http://host/receipts/b-7", receipt.DownloadURL)
}

func TestFlow_PendingSubmissionBlocksSecondPrepare(t *testing.T) {
	flow, _ := newTestFlow(t)
	require.NoError(t, flow.Toggle("1"))
	_, err := flow.ProceedToPayment()
	require.NoError(t, err)
	require.NoError(t, flow.SetForm(validForm()))

	_, err = flow.PrepareSubmission(paymentNow)
	require.NoError(t, err)
	_, err = flow.PrepareSubmission(paymentNow)
	assert.ErrorIs(t, err, ErrSubmissionPending)
	assert.ErrorIs(t, flow.BackToSeats(), ErrSubmissionPending)
}

func TestFlow_PriceUnavailableBlocksPayment(t *testing.T) {
	flow := NewFlow(model.Showtime{
		Id:    "st-2",
		Seats: []model.Seat{seat("1", "A", 1, model.SeatStandard)},
	}, ReservationSnapshot{})
	require.NoError(t, flow.Toggle("1"))

	_, err := flow.ProceedToPayment()

	assert.ErrorIs(t, err, ErrPriceUnavailable)
	assert.Equal(t, StepSelectingSeats, flow.Step())
}

func TestFlow_RefreshReleasesTakenSeats(t *testing.T) {
	flow, _ := newTestFlow(t)
	require.NoError(t, flow.Toggle("1"))
	require.NoError(t, flow.Toggle("3"))

	dropped, err := flow.Refresh(ReservationSnapshot{ShowtimeID: "st-1", SeatIDs: []string{"3"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"A3"}, dropped)
	assert.Len(t, flow.SelectedSeats(), 1)
}

func TestFlow_EstimatedQuoteIsLoggedAsWarning(t *testing.T) {
	flow, hook := newTestFlow(t)
	require.NoError(t, flow.Toggle("2"))

	_, err := flow.ProceedToPayment()
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "estimated", entry.Data["pricing_source"])
	assert.Equal(t, "15.75", entry.Data["total"])
}
