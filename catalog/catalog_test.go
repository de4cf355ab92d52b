package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cineconnect-cli/model"
)

func TestAvailableGenres(t *testing.T) {
	movies := []model.Movie{{Genre: "Terror"}, {Genre: "Drama"}, {Genre: ""}, {Genre: "Terror"}, {Genre: " Acción "}}

	assert.Equal(t, []string{"Acción", "Drama", "Terror"}, AvailableGenres(movies))
	assert.Empty(t, AvailableGenres(nil))
}

func TestFilterShowcase(t *testing.T) {
	movies := []model.Movie{
		{Id: "a", Status: model.MovieStatusActive, Showtimes: []model.Showtime{{Date: "2026-10-20"}}},
		{Id: "b", Status: model.MovieStatusActive},
		{Id: "c", Status: model.MovieStatusInactive, Showtimes: []model.Showtime{{Date: "2026-10-20"}}},
		{Id: "d", Status: model.MovieStatusActive, Showtimes: []model.Showtime{{Date: "2026-10-21T00:00:00Z"}}},
	}

	ids := func(ms []model.Movie) []string {
		out := []string{}
		for _, m := range ms {
			out = append(out, m.Id)
		}
		return out
	}
	assert.Equal(t, []string{"a", "d"}, ids(FilterShowcase(movies, "")))
	assert.Equal(t, []string{"d"}, ids(FilterShowcase(movies, "2026-10-21")))
	assert.Len(t, movies, 4)
}

func TestSortForAdmin(t *testing.T) {
	movies := []model.Movie{
		{Id: "old-off", Status: model.MovieStatusInactive, ReleaseDate: "2020-01-01"},
		{Id: "old-on", Status: model.MovieStatusActive, ReleaseDate: "2021-05-01"},
		{Id: "new-off", Status: model.MovieStatusInactive, ReleaseDate: "2026-01-01"},
		{Id: "new-on", Status: model.MovieStatusActive, ReleaseDate: "2026-09-01"},
	}

	sorted := SortForAdmin(movies)

	var got []string
	for _, m := range sorted {
		got = append(got, m.Id)
	}
	assert.Equal(t, []string{"new-on", "old-on", "new-off", "old-off"}, got)
	assert.Equal(t, "old-off", movies[0].Id)
}

func TestSortShowtimes(t *testing.T) {
	showtimes := []model.Showtime{
		{Id: "3", Date: "2026-10-21", Time: "10:00"},
		{Id: "2", Date: "2026-10-20", Time: "21:00:00"},
		{Id: "1", Date: "2026-10-20", Time: "18:30"},
	}

	sorted := SortShowtimes(showtimes)

	assert.Equal(t, "1", sorted[0].Id)
	assert.Equal(t, "2", sorted[1].Id)
	assert.Equal(t, "3", sorted[2].Id)
	assert.Equal(t, "3", showtimes[0].Id)
}

func filterFixture() ([]model.Showtime, []model.Room) {
	rooms := []model.Room{
		{Id: "r1", Name: "Sala 1", Type: "2D", Location: "Zona 10"},
		{Id: "r2", Name: "Sala IMAX", Type: "IMAX", Location: "Miraflores"},
	}
	showtimes := []model.Showtime{
		{Id: "past", RoomID: "r1", Date: "2026-10-14", Time: "09:00"},
		{Id: "today", RoomID: "r1", Date: "2026-10-14", Time: "20:00:00"},
		{Id: "imax", RoomID: "r2", Date: "2026-10-15", Time: "18:00"},
		{Id: "orphan", RoomID: "r9", Date: "2026-10-15", Time: "18:00"},
	}
	return showtimes, rooms
}

func showtimeIDs(showtimes []model.Showtime) []string {
	out := []string{}
	for _, s := range showtimes {
		out = append(out, s.Id)
	}
	return out
}

func TestFilterShowtimes(t *testing.T) {
	showtimes, rooms := filterFixture()
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	base := ShowtimeQuery{Now: now, Zone: time.UTC}

	assert.Equal(t, []string{"today", "imax"}, showtimeIDs(FilterShowtimes(showtimes, rooms, base)))

	q := base
	q.Search = "mira"
	assert.Equal(t, []string{"imax"}, showtimeIDs(FilterShowtimes(showtimes, rooms, q)))

	q = base
	q.RoomType = "2d"
	assert.Equal(t, []string{"today"}, showtimeIDs(FilterShowtimes(showtimes, rooms, q)))

	q = base
	q.Location = "Miraflores"
	q.Date = "2026-10-15"
	q.Time = "18:00"
	assert.Equal(t, []string{"imax"}, showtimeIDs(FilterShowtimes(showtimes, rooms, q)))

	q = base
	q.Time = "20:00"
	assert.Equal(t, []string{"today"}, showtimeIDs(FilterShowtimes(showtimes, rooms, q)))
}

func TestFilterShowtimes_StrictlyFuture(t *testing.T) {
	showtimes := []model.Showtime{{Id: "now", RoomID: "r1", Date: "2026-10-14", Time: "12:00"}}
	rooms := []model.Room{{Id: "r1"}}
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

	assert.Empty(t, FilterShowtimes(showtimes, rooms, ShowtimeQuery{Now: now, Zone: time.UTC}))
}

func TestAvailableFacets(t *testing.T) {
	showtimes, rooms := filterFixture()
	rooms = append(rooms, model.Room{Id: "r3", Type: "4DX", Location: "Zona 10"})

	assert.Equal(t, []string{"2D", "IMAX"}, AvailableRoomTypes(rooms, showtimes))
	assert.Equal(t, []string{"Miraflores", "Zona 10"}, AvailableLocations(rooms))
	assert.Equal(t, []string{"2026-10-14", "2026-10-15"}, AvailableDates(showtimes))
	assert.Equal(t, []string{"09:00", "18:00", "20:00"}, AvailableTimes(showtimes))
}

func TestOccupancyRate(t *testing.T) {
	assert.InDelta(t, 0.25, OccupancyRate(100, 75), 1e-9)
	assert.Equal(t, 0.0, OccupancyRate(0, 0))
	assert.Equal(t, 1.0, OccupancyRate(10, -3))
	assert.Equal(t, 0.0, OccupancyRate(10, 20))
}

func TestPlanSchedule(t *testing.T) {
	plan, err := PlanSchedule(model.ScheduleRequest{
		StartDate:    "2026-10-19",
		EndDate:      "2026-10-25",
		Times:        []string{"21:00", "18:00", "18:00"},
		ExcludedDays: []string{"Monday", "sunday"},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, plan.Days)
	assert.Len(t, plan.Slots, 10)
	assert.Equal(t, Slot{Date: "2026-10-20", Time: "18:00"}, plan.Slots[0])
	assert.Equal(t, Slot{Date: "2026-10-24", Time: "21:00"}, plan.Slots[9])
	assert.Equal(t, []string{"monday", "sunday"}, plan.Excluded)
}

func TestPlanSchedule_Invalid(t *testing.T) {
	cases := map[string]struct {
		req  model.ScheduleRequest
		want error
	}{
		"reversed": {model.ScheduleRequest{StartDate: "2026-10-20", EndDate: "2026-10-19", Times: []string{"18:00"}}, ErrInvalidDateRange},
		"bad date": {model.ScheduleRequest{StartDate: "20/10/2026", EndDate: "2026-10-19", Times: []string{"18:00"}}, ErrInvalidDateRange},
		"bad time": {model.ScheduleRequest{StartDate: "2026-10-19", EndDate: "2026-10-19", Times: []string{"6pm"}}, ErrInvalidTime},
		"no times": {model.ScheduleRequest{StartDate: "2026-10-19", EndDate: "2026-10-19"}, ErrInvalidTime},
		"weekday":  {model.ScheduleRequest{StartDate: "2026-10-19", EndDate: "2026-10-19", Times: []string{"18:00"}, ExcludedDays: []string{"lunes"}}, ErrInvalidWeekday},
		"too long": {model.ScheduleRequest{StartDate: "2026-01-01", EndDate: "2027-06-01", Times: []string{"18:00"}}, ErrInvalidDateRange},
	}
	for name, tc := range cases {
		_, err := PlanSchedule(tc.req)
		assert.ErrorIs(t, err, tc.want, name)
	}
}
