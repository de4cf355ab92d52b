package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/samber/lo"

	"cineconnect-cli/catalog"
	"cineconnect-cli/model"
)

const allDates = ""

type movieItem struct {
	movie  model.Movie
	recent bool
}

func (m movieItem) Title() string {
	return m.movie.Title
}

func (m movieItem) Description() string {
	parts := []string{}
	if m.recent {
		parts = append(parts, "Recent")
	}
	if m.movie.Genre != "" {
		parts = append(parts, m.movie.Genre)
	}
	if m.movie.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%d min", m.movie.Duration))
	}
	if !m.movie.Rating.IsZero() {
		parts = append(parts, "★ "+m.movie.Rating.String())
	}
	if n := len(m.movie.Showtimes); n > 0 {
		parts = append(parts, fmt.Sprintf("%d showtimes", n))
	}
	return strings.Join(parts, " • ")
}

func (m movieItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{m.movie.Title, m.movie.Genre}, " "))
}

type showtimeItem struct {
	showtime model.Showtime
	room     model.Room
}

func (s showtimeItem) Title() string {
	room := strings.TrimSpace(s.room.Name)
	if room == "" {
		room = "Sala"
	}
	return fmt.Sprintf("%s • %s • %s", s.showtime.Date, clockLabel(s.showtime.Time), room)
}

func (s showtimeItem) Description() string {
	parts := []string{}
	if s.room.Type != "" {
		parts = append(parts, s.room.Type)
	}
	if s.room.Location != "" {
		parts = append(parts, s.room.Location)
	}
	if s.showtime.TotalSeats > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d seats free", s.showtime.AvailableSeats, s.showtime.TotalSeats))
	}
	parts = append(parts, "From "+formatPrice(s.showtime.Price))
	return strings.Join(parts, " • ")
}

func (s showtimeItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{s.room.Name, s.room.Type, s.room.Location, s.showtime.Date, clockLabel(s.showtime.Time)}, " "))
}

type dateItem struct {
	date  string
	count int
	today bool
}

func (d dateItem) Title() string {
	if d.date == allDates {
		return "All dates"
	}
	if d.today {
		return d.date + " (today)"
	}
	return d.date
}

func (d dateItem) Description() string {
	if d.count == 1 {
		return "1 showtime"
	}
	return fmt.Sprintf("%d showtimes", d.count)
}

func (d dateItem) FilterValue() string {
	return d.date
}

// buildMovieItems lists movies of genre, recently viewed first. An empty
// genre keeps every movie.
func buildMovieItems(movies []model.Movie, genre string, recent map[string]bool) []list.Item {
	matching := lo.Filter(movies, func(m model.Movie, _ int) bool {
		return genre == "" || strings.EqualFold(strings.TrimSpace(m.Genre), genre)
	})
	items := make([]list.Item, 0, len(matching))
	for _, movie := range matching {
		if recent[movie.Id] {
			items = append(items, movieItem{movie: movie, recent: true})
		}
	}
	for _, movie := range matching {
		if !recent[movie.Id] {
			items = append(items, movieItem{movie: movie})
		}
	}
	return items
}

func buildShowtimeItems(showtimes []model.Showtime, rooms []model.Room) []list.Item {
	byID := lo.KeyBy(rooms, func(r model.Room) string { return r.Id })
	items := make([]list.Item, 0, len(showtimes))
	for _, st := range showtimes {
		room := byID[st.RoomID]
		if st.Room != nil && st.Room.Name != "" {
			room = *st.Room
		}
		items = append(items, showtimeItem{showtime: st, room: room})
	}
	return items
}

// buildDateItems offers every date with an upcoming showtime plus an
// "all dates" entry. The current choice is listed first.
func buildDateItems(showtimes []model.Showtime, current string, today string) []list.Item {
	counts := map[string]int{}
	for _, st := range showtimes {
		counts[st.Date]++
	}
	items := []list.Item{dateItem{date: allDates, count: len(showtimes)}}
	for _, date := range catalog.AvailableDates(showtimes) {
		item := dateItem{date: date, count: counts[date], today: date == today}
		if date == current {
			items = append([]list.Item{item}, items...)
			continue
		}
		items = append(items, item)
	}
	return items
}

func clockLabel(clock string) string {
	if len(clock) >= 5 {
		return clock[:5]
	}
	return clock
}

func formatPrice(price model.Decimal) string {
	if price.IsZero() {
		return "-"
	}
	return "Q" + price.String()
}
