package model

// PaymentMethodCard is the payment label the backend expects for card
// purchases.
const PaymentMethodCard = "Tarjeta de Crédito"

type Booking struct {
	Id            string        `json:"id"`
	TransactionID string        `json:"transaction_id"`
	ShowtimeID    string        `json:"showtime_id"`
	UserID        string        `json:"user_id"`
	TotalPrice    Decimal       `json:"total_price"`
	Status        string        `json:"status"`
	PaymentMethod string        `json:"payment_method"`
	CustomerEmail string        `json:"customer_email"`
	QRCodeData    string        `json:"qr_code_data"`
	ReceiptURL    string        `json:"receipt_url"`
	PurchaseDate  string        `json:"purchase_date"`
	CreatedAt     string        `json:"createdAt,omitempty"`
	UpdatedAt     string        `json:"updatedAt,omitempty"`
	Showtime      *Showtime     `json:"showtime,omitempty"`
	BookingSeats  []BookingSeat `json:"bookingSeats"`
}

// SeatLabels returns the row+number codes of the booked seats.
func (b Booking) SeatLabels() []string {
	labels := make([]string, 0, len(b.BookingSeats))
	for _, bs := range b.BookingSeats {
		labels = append(labels, bs.Seat.Label())
	}
	return labels
}

type BookingSeat struct {
	Id        string  `json:"id"`
	BookingID string  `json:"booking_id"`
	SeatID    string  `json:"seat_id"`
	Price     Decimal `json:"price"`
	Seat      Seat    `json:"seat"`
}

type BookingRequest struct {
	ShowtimeID    string   `json:"showtime_id"`
	SeatIDs       []string `json:"seat_ids"`
	PaymentMethod string   `json:"payment_method"`
	CustomerEmail string   `json:"customer_email"`
}

type Receipt struct {
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
	RelativeURL string `json:"relative_url,omitempty"`
}
