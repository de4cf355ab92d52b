package model

import "strconv"

const (
	MovieStatusActive   = "active"
	MovieStatusInactive = "inactive"
)

type Movie struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Genre       string     `json:"genre"`
	Duration    int        `json:"duration"`
	Rating      Decimal    `json:"rating"`
	Poster      string     `json:"poster"`
	Description string     `json:"description"`
	Price       Decimal    `json:"price"`
	ReleaseDate string     `json:"release_date"`
	Status      string     `json:"status"`
	Showtimes   []Showtime `json:"showtimes,omitempty"`
	CreatedAt   string     `json:"createdAt,omitempty"`
	UpdatedAt   string     `json:"updatedAt,omitempty"`
}

// MovieInput is the create/update payload. Zero fields are omitted so the
// same type serves partial updates.
type MovieInput struct {
	Title       string  `json:"title,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Duration    int     `json:"duration,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Poster      string  `json:"poster,omitempty"`
	Status      string  `json:"status,omitempty"`
}

type MovieFilter struct {
	Search string
	Genre  string
	Status string
	Page   int
	Limit  int
}

type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
