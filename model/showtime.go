package model

import "time"

const showtimeLayout = "2006-01-02 15:04"

type Showtime struct {
	Id             string        `json:"id"`
	MovieID        string        `json:"movie_id"`
	RoomID         string        `json:"room_id"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	Price          Decimal       `json:"price"`
	AvailableSeats int           `json:"available_seats"`
	TotalSeats     int           `json:"total_seats"`
	Status         string        `json:"status,omitempty"`
	TicketPrices   *TicketPrices `json:"ticket_prices,omitempty"`
	Movie          *Movie        `json:"movie,omitempty"`
	Room           *Room         `json:"room,omitempty"`
	Seats          []Seat        `json:"seats,omitempty"`
	BookingInfo    *BookingInfo  `json:"booking_info,omitempty"`
	CreatedAt      string        `json:"createdAt,omitempty"`
	UpdatedAt      string        `json:"updatedAt,omitempty"`
}

// StartsAt parses date and time in loc. The backend stores both as local
// wall-clock strings.
func (s Showtime) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(showtimeLayout, s.Date+" "+trimSeconds(s.Time), loc)
}

// TicketPrices carries authoritative per-category prices for a showtime.
type TicketPrices struct {
	Standard Decimal `json:"standard"`
	Premium  Decimal `json:"premium"`
	VIP      Decimal `json:"vip"`
}

type BookingInfo struct {
	TotalSeats     int     `json:"total_seats"`
	AvailableSeats int     `json:"available_seats"`
	BookedSeats    int     `json:"booked_seats"`
	OccupancyRate  Decimal `json:"occupancy_rate"`
}

type ShowtimeInput struct {
	MovieID string   `json:"movie_id,omitempty"`
	RoomID  string   `json:"room_id,omitempty"`
	Date    string   `json:"date,omitempty"`
	Time    string   `json:"time,omitempty"`
	Price   *float64 `json:"price,omitempty"`
}

type ShowtimeFilter struct {
	MovieID string
	RoomID  string
	Date    string
	Time    string
	Page    int
	Limit   int
}

// ShowtimeSeats is the payload of the per-showtime seat endpoint.
type ShowtimeSeats struct {
	Showtime Showtime `json:"showtime"`
	Room     Room     `json:"room"`
	Seats    []Seat   `json:"seats"`
}

// ReservedSeat is one entry of the reservation list of a showtime.
type ReservedSeat struct {
	SeatID string `json:"seat_id"`
}

type ScheduleRequest struct {
	MovieID       string   `json:"movie_id"`
	RoomID        string   `json:"room_id"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Times         []string `json:"times"`
	ExcludedDays  []string `json:"excluded_days,omitempty"`
	PriceOverride *float64 `json:"price_override,omitempty"`
}

type ScheduleSummary struct {
	TotalGenerated int `json:"total_generated"`
	TotalSkipped   int `json:"total_skipped"`
	DateRange      struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	} `json:"date_range"`
	Room struct {
		Id   string `json:"id"`
		Name string `json:"name"`
	} `json:"room"`
	Movie struct {
		Id    string `json:"id"`
		Title string `json:"title"`
	} `json:"movie"`
}

type SkippedSlot struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

type ScheduleResult struct {
	Message string           `json:"message,omitempty"`
	Summary *ScheduleSummary `json:"summary,omitempty"`
	Created []Showtime       `json:"created"`
	Skipped []SkippedSlot    `json:"skipped"`
}

func trimSeconds(clock string) string {
	if len(clock) == len("15:04:05") {
		return clock[:5]
	}
	return clock
}
