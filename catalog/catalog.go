// Package catalog derives the lists the screens show from what the API
// returned. Every function is pure: inputs are never mutated and nothing is
// cached between calls.
package catalog

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"cineconnect-cli/model"
)

// AvailableGenres returns the distinct non-empty genres, sorted.
func AvailableGenres(movies []model.Movie) []string {
	genres := lo.FilterMap(movies, func(m model.Movie, _ int) (string, bool) {
		g := strings.TrimSpace(m.Genre)
		return g, g != ""
	})
	return sortedUniq(genres)
}

// FilterShowcase keeps the movies worth listing on the billboard: active,
// with showtimes and, when date is set, with a showtime on that date.
func FilterShowcase(movies []model.Movie, date string) []model.Movie {
	date = strings.TrimSpace(date)
	return lo.Filter(movies, func(m model.Movie, _ int) bool {
		if m.Status != model.MovieStatusActive || len(m.Showtimes) == 0 {
			return false
		}
		if date == "" {
			return true
		}
		return lo.ContainsBy(m.Showtimes, func(s model.Showtime) bool {
			return strings.HasPrefix(s.Date, date)
		})
	})
}

// SortForAdmin orders movies active first, then newest release first.
func SortForAdmin(movies []model.Movie) []model.Movie {
	out := slices.Clone(movies)
	sort.SliceStable(out, func(i, j int) bool {
		ai := out[i].Status == model.MovieStatusActive
		aj := out[j].Status == model.MovieStatusActive
		if ai != aj {
			return ai
		}
		return out[i].ReleaseDate > out[j].ReleaseDate
	})
	return out
}

// SortShowtimes orders showtimes chronologically.
func SortShowtimes(showtimes []model.Showtime) []model.Showtime {
	out := slices.Clone(showtimes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return clock(out[i].Time) < clock(out[j].Time)
	})
	return out
}

// ShowtimeQuery narrows the showtimes of a movie page. Empty fields do not
// filter. Now is the reference for "in the future"; Zone is where showtime
// wall-clock times are read, time.Local when nil.
type ShowtimeQuery struct {
	Search   string
	RoomType string
	Location string
	Date     string
	Time     string
	Now      time.Time
	Zone     *time.Location
}

// FilterShowtimes keeps showtimes in one of rooms that match every set
// filter and start strictly after q.Now.
func FilterShowtimes(showtimes []model.Showtime, rooms []model.Room, q ShowtimeQuery) []model.Showtime {
	byID := lo.KeyBy(rooms, func(r model.Room) string { return r.Id })
	search := strings.ToLower(strings.TrimSpace(q.Search))

	return lo.Filter(showtimes, func(s model.Showtime, _ int) bool {
		room, ok := byID[s.RoomID]
		if !ok {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(room.Name), search) &&
			!strings.Contains(strings.ToLower(room.Location), search) {
			return false
		}
		if q.RoomType != "" && !strings.EqualFold(room.Type, q.RoomType) {
			return false
		}
		if q.Location != "" && room.Location != q.Location {
			return false
		}
		if q.Date != "" && s.Date != q.Date {
			return false
		}
		if q.Time != "" && clock(s.Time) != clock(q.Time) {
			return false
		}
		starts, err := s.StartsAt(q.Zone)
		if err != nil {
			return false
		}
		return starts.After(q.Now)
	})
}

// AvailableRoomTypes lists the types of the rooms that host at least one of
// showtimes.
func AvailableRoomTypes(rooms []model.Room, showtimes []model.Showtime) []string {
	used := lo.Associate(showtimes, func(s model.Showtime) (string, struct{}) {
		return s.RoomID, struct{}{}
	})
	types := lo.FilterMap(rooms, func(r model.Room, _ int) (string, bool) {
		_, ok := used[r.Id]
		return r.Type, ok && r.Type != ""
	})
	return sortedUniq(types)
}

func AvailableLocations(rooms []model.Room) []string {
	locations := lo.FilterMap(rooms, func(r model.Room, _ int) (string, bool) {
		return r.Location, strings.TrimSpace(r.Location) != ""
	})
	return sortedUniq(locations)
}

func AvailableDates(showtimes []model.Showtime) []string {
	return sortedUniq(lo.Map(showtimes, func(s model.Showtime, _ int) string { return s.Date }))
}

// AvailableTimes returns distinct HH:MM start times.
func AvailableTimes(showtimes []model.Showtime) []string {
	return sortedUniq(lo.Map(showtimes, func(s model.Showtime, _ int) string { return clock(s.Time) }))
}

// OccupancyRate is the reserved fraction of a showtime, between 0 and 1.
func OccupancyRate(total int, available int) float64 {
	if total <= 0 {
		return 0
	}
	available = lo.Clamp(available, 0, total)
	return float64(total-available) / float64(total)
}

func sortedUniq(values []string) []string {
	out := lo.Uniq(lo.Without(values, ""))
	sort.Strings(out)
	return out
}

func clock(value string) string {
	value = strings.TrimSpace(value)
	if len(value) > 5 {
		return value[:5]
	}
	return value
}
