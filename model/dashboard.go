package model

type DashboardStats struct {
	TotalSales    float64 `json:"totalSales"`
	TotalTickets  int     `json:"totalTickets"`
	AveragePrice  float64 `json:"averagePrice"`
	ActiveMovies  int     `json:"activeMovies"`
	TotalUsers    int     `json:"totalUsers"`
	OccupancyRate float64 `json:"occupancyRate"`
	SalesGrowth   float64 `json:"salesGrowth"`
}

type MovieSales struct {
	MovieTitle  string  `json:"movieTitle"`
	TotalSales  float64 `json:"totalSales"`
	TicketCount int     `json:"ticketCount"`
}

// DailyTrend uses the backend's Spanish field names on the wire.
type DailyTrend struct {
	Label    string  `json:"fecha"`
	Sales    float64 `json:"ventas"`
	Tickets  int     `json:"boletos"`
	FullDate string  `json:"fullDate"`
}

type GenreShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type ShowtimeOccupancy struct {
	ShowtimeID          string  `json:"showtimeId"`
	Date                string  `json:"date"`
	Time                string  `json:"time"`
	MovieTitle          string  `json:"movieTitle"`
	MovieGenre          string  `json:"movieGenre"`
	Duration            int     `json:"duration"`
	OccupiedSeats       int     `json:"occupiedSeats"`
	TotalSeats          int     `json:"totalSeats"`
	Price               float64 `json:"price"`
	OccupancyPercentage float64 `json:"occupancyPercentage"`
	Revenue             float64 `json:"revenue"`
	OccupancyStatus     string  `json:"occupancyStatus"`
}

type OccupancyCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
	Full   int `json:"full"`
}

type RoomOccupancy struct {
	Id              string              `json:"id"`
	Name            string              `json:"name"`
	Capacity        int                 `json:"capacity"`
	Location        string              `json:"location"`
	Type            string              `json:"type"`
	Status          string              `json:"status"`
	TotalShowtimes  int                 `json:"totalShowtimes"`
	AvgOccupancy    float64             `json:"avgOccupancy"`
	MaxOccupancy    float64             `json:"maxOccupancy"`
	MinOccupancy    float64             `json:"minOccupancy"`
	TotalRevenue    float64             `json:"totalRevenue"`
	OccupancyCounts OccupancyCounts     `json:"occupancyCounts"`
	OccupancyStatus string              `json:"occupancyStatus"`
	HasShowtimes    bool                `json:"hasShowtimes"`
	Showtimes       []ShowtimeOccupancy `json:"showtimes"`
}

type OccupancyFilter struct {
	Location   string
	Period     string
	CustomDate string
}

type OccupancyReport struct {
	Rooms         []RoomOccupancy `json:"roomOccupancy"`
	FilterApplied struct {
		Location   *string `json:"location"`
		Period     string  `json:"period"`
		CustomDate *string `json:"customDate"`
		DateRange  struct {
			Start string `json:"start"`
			End   string `json:"end"`
			Label string `json:"label"`
		} `json:"dateRange"`
	} `json:"filterApplied"`
	Summary struct {
		TotalRooms          int     `json:"totalRooms"`
		RoomsWithShowtimes  int     `json:"roomsWithShowtimes"`
		TotalShowtimes      int     `json:"totalShowtimes"`
		OverallAvgOccupancy float64 `json:"overallAvgOccupancy"`
		TotalRevenue        float64 `json:"totalRevenue"`
		TotalOccupiedSeats  int     `json:"totalOccupiedSeats"`
	} `json:"summary"`
	Message string `json:"message,omitempty"`
}

const (
	ReportFormatExcel = "excel"
	ReportFormatPDF   = "pdf"
)
