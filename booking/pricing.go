package booking

import (
	"errors"
	"fmt"
	"strings"

	"cineconnect-cli/model"
)

type PriceSource string

const (
	// SourceTicketPrices marks prices sent by the server for the showtime.
	SourceTicketPrices PriceSource = "ticket_prices"
	// SourceEstimated marks prices derived from the base price.
	SourceEstimated PriceSource = "estimated"
)

// Fallback multipliers in percent of the base price.
const (
	premiumPercent    = 110
	vipPercent        = 120
	serviceFeePercent = 5
)

var (
	ErrPriceUnavailable = errors.New("showtime has no price")
	ErrUnknownSeatType  = errors.New("unknown seat type")
)

// PriceTable maps seat categories to a ticket price for one showtime.
type PriceTable struct {
	Source PriceSource
	prices map[model.SeatType]model.Decimal
}

// ResolvePriceTable prefers the showtime's explicit ticket prices and falls
// back to deriving them from the base price.
func ResolvePriceTable(showtime model.Showtime) (PriceTable, error) {
	if tp := showtime.TicketPrices; tp != nil && !(tp.Standard.IsZero() && tp.Premium.IsZero() && tp.VIP.IsZero()) {
		return PriceTable{
			Source: SourceTicketPrices,
			prices: map[model.SeatType]model.Decimal{
				model.SeatStandard: tp.Standard,
				model.SeatPremium:  tp.Premium,
				model.SeatVIP:      tp.VIP,
			},
		}, nil
	}
	base := showtime.Price.Cents()
	if base <= 0 {
		return PriceTable{}, ErrPriceUnavailable
	}
	return PriceTable{
		Source: SourceEstimated,
		prices: map[model.SeatType]model.Decimal{
			model.SeatStandard: model.DecimalFromCents(base),
			model.SeatPremium:  model.DecimalFromCents(percentOf(base, premiumPercent)),
			model.SeatVIP:      model.DecimalFromCents(percentOf(base, vipPercent)),
		},
	}, nil
}

// Estimated reports whether the prices were derived client-side.
func (t PriceTable) Estimated() bool {
	return t.Source == SourceEstimated
}

// For returns the price of a seat category.
func (t PriceTable) For(seatType model.SeatType) (model.Decimal, error) {
	if t.prices == nil {
		return model.Decimal{}, ErrPriceUnavailable
	}
	price, ok := t.prices[normalizeSeatType(seatType)]
	if !ok {
		return model.Decimal{}, fmt.Errorf("%w: %q", ErrUnknownSeatType, seatType)
	}
	return price, nil
}

type QuoteLine struct {
	Seat  model.Seat
	Price model.Decimal
}

// Quote is the client-side estimate of what a selection costs. The server
// computes the charged total.
type Quote struct {
	Lines    []QuoteLine
	Subtotal model.Decimal
	Fee      model.Decimal
	Total    model.Decimal
	Source   PriceSource
}

func (q Quote) SeatIDs() []string {
	ids := make([]string, 0, len(q.Lines))
	for _, line := range q.Lines {
		ids = append(ids, line.Seat.Id)
	}
	return ids
}

func (q Quote) SeatLabels() []string {
	labels := make([]string, 0, len(q.Lines))
	for _, line := range q.Lines {
		labels = append(labels, line.Seat.Label())
	}
	return labels
}

// Quote prices seats. Every seat must have a known category.
func (t PriceTable) Quote(seats []model.Seat) (Quote, error) {
	quote := Quote{Source: t.Source, Lines: make([]QuoteLine, 0, len(seats))}
	var subtotal int64
	for _, seat := range seats {
		price, err := t.For(seat.Type)
		if err != nil {
			return Quote{}, fmt.Errorf("seat %s: %w", seat.Label(), err)
		}
		quote.Lines = append(quote.Lines, QuoteLine{Seat: seat, Price: price})
		subtotal += price.Cents()
	}
	fee := percentOf(subtotal, serviceFeePercent)
	quote.Subtotal = model.DecimalFromCents(subtotal)
	quote.Fee = model.DecimalFromCents(fee)
	quote.Total = model.DecimalFromCents(subtotal + fee)
	return quote, nil
}

// percentOf rounds half up to the nearest cent.
func percentOf(cents int64, percent int64) int64 {
	return (cents*percent + 50) / 100
}

func normalizeSeatType(seatType model.SeatType) model.SeatType {
	return model.SeatType(strings.ToLower(strings.TrimSpace(string(seatType))))
}
