package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"cineconnect-cli/model"
)

const maxScheduleDays = 366

var (
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidTime      = errors.New("invalid time, expected HH:MM")
	ErrInvalidWeekday   = errors.New("invalid weekday")
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Slot is one showtime a schedule request would try to create.
type Slot struct {
	Date string
	Time string
}

// SchedulePlan previews a batch scheduling request. The server still
// decides which slots collide with existing showtimes.
type SchedulePlan struct {
	Slots    []Slot
	Days     int
	Excluded []string
}

// PlanSchedule expands req into slots: every date of the range not on an
// excluded weekday, times each requested time.
func PlanSchedule(req model.ScheduleRequest) (SchedulePlan, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(req.StartDate))
	if err != nil {
		return SchedulePlan{}, fmt.Errorf("%w: start date %q", ErrInvalidDateRange, req.StartDate)
	}
	end, err := time.Parse(time.DateOnly, strings.TrimSpace(req.EndDate))
	if err != nil {
		return SchedulePlan{}, fmt.Errorf("%w: end date %q", ErrInvalidDateRange, req.EndDate)
	}
	if end.Before(start) {
		return SchedulePlan{}, fmt.Errorf("%w: end date before start date", ErrInvalidDateRange)
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > maxScheduleDays {
		return SchedulePlan{}, fmt.Errorf("%w: %d days exceeds %d", ErrInvalidDateRange, days, maxScheduleDays)
	}
	if len(req.Times) == 0 {
		return SchedulePlan{}, fmt.Errorf("%w: no times given", ErrInvalidTime)
	}

	times := make([]string, 0, len(req.Times))
	for _, raw := range req.Times {
		t, err := time.Parse("15:04", strings.TrimSpace(raw))
		if err != nil {
			return SchedulePlan{}, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
		}
		times = append(times, t.Format("15:04"))
	}
	times = sortedUniq(times)

	excluded := map[time.Weekday]bool{}
	for _, name := range req.ExcludedDays {
		day, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return SchedulePlan{}, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
		}
		excluded[day] = true
	}

	plan := SchedulePlan{Excluded: lo.Map(lo.Keys(excluded), func(d time.Weekday, _ int) string {
		return strings.ToLower(d.String())
	})}
	plan.Excluded = sortedUniq(plan.Excluded)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if excluded[day.Weekday()] {
			continue
		}
		plan.Days++
		date := day.Format(time.DateOnly)
		for _, t := range times {
			plan.Slots = append(plan.Slots, Slot{Date: date, Time: t})
		}
	}
	return plan, nil
}
