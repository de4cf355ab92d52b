package model

type SeatType string

const (
	SeatStandard SeatType = "standard"
	SeatPremium  SeatType = "premium"
	SeatVIP      SeatType = "vip"
)

// SeatTypes lists the categories in display order.
var SeatTypes = []SeatType{SeatStandard, SeatPremium, SeatVIP}

const (
	SeatStatusAvailable   = "available"
	SeatStatusOccupied    = "occupied"
	SeatStatusMaintenance = "maintenance"
)

// Seat is a physical seat of a room. Its status is global to the room, not
// to a showtime.
type Seat struct {
	Id          string   `json:"id"`
	Row         string   `json:"row"`
	Number      int      `json:"number"`
	Type        SeatType `json:"type"`
	Status      string   `json:"status"`
	IsAvailable *bool    `json:"is_available,omitempty"`
}

// Label is the row+number code printed on tickets, e.g. "C7".
func (s Seat) Label() string {
	return s.Row + itoa(s.Number)
}

const (
	RoomStatusActive      = "active"
	RoomStatusMaintenance = "maintenance"
	RoomStatusInactive    = "inactive"
)

type Room struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Location  string `json:"location"`
	Seats     []Seat `json:"seats,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type RoomInput struct {
	Name     string `json:"name,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
	Type     string `json:"type,omitempty"`
	Status   string `json:"status,omitempty"`
	Location string `json:"location,omitempty"`
}

type RoomFilter struct {
	Search   string
	Status   string
	Type     string
	Location string
}
