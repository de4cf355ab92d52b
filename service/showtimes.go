package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"cineconnect-cli/model"
)

func (c *Client) ListShowtimes(ctx context.Context, filter model.ShowtimeFilter) ([]model.Showtime, model.Pagination, error) {
	query := url.Values{}
	setIf(query, "movieId", filter.MovieID)
	setIf(query, "roomId", filter.RoomID)
	setIf(query, "date", filter.Date)
	setIf(query, "time", filter.Time)
	setIntIf(query, "page", filter.Page)
	setIntIf(query, "limit", filter.Limit)

	var data struct {
		Showtimes  []model.Showtime `json:"showtimes"`
		Pagination model.Pagination `json:"pagination"`
	}
	if err := c.getJSON(ctx, "/showtimes", query, &data); err != nil {
		return nil, model.Pagination{}, err
	}
	return data.Showtimes, data.Pagination, nil
}

// GetShowtime fetches a showtime with its embedded movie, room, seat layout
// and per-category ticket prices.
func (c *Client) GetShowtime(ctx context.Context, id string) (model.Showtime, error) {
	if err := requireID("showtime", id); err != nil {
		return model.Showtime{}, err
	}
	var data struct {
		Showtime *model.Showtime `json:"showtime"`
	}
	if err := c.getJSON(ctx, "/showtimes/"+url.PathEscape(id), nil, &data); err != nil {
		return model.Showtime{}, err
	}
	if data.Showtime == nil {
		return model.Showtime{}, errors.New("showtime not found")
	}
	return *data.Showtime, nil
}

func (c *Client) GetShowtimeSeats(ctx context.Context, id string) (model.ShowtimeSeats, error) {
	if err := requireID("showtime", id); err != nil {
		return model.ShowtimeSeats{}, err
	}
	var data model.ShowtimeSeats
	if err := c.getJSON(ctx, "/showtimes/"+url.PathEscape(id)+"/seats", nil, &data); err != nil {
		return model.ShowtimeSeats{}, err
	}
	return data, nil
}

// ReservedSeats returns the ids of seats already committed to bookings for
// the showtime. Errors are returned as is; deciding whether a failure may be
// tolerated is the caller's job.
func (c *Client) ReservedSeats(ctx context.Context, showtimeID string) ([]string, error) {
	if err := requireID("showtime", showtimeID); err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("showtimeId", showtimeID)

	var reserved []model.ReservedSeat
	if err := c.getJSON(ctx, "/booking-seats", query, &reserved); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(reserved))
	for _, r := range reserved {
		if r.SeatID != "" {
			ids = append(ids, r.SeatID)
		}
	}
	return ids, nil
}

func (c *Client) CreateShowtime(ctx context.Context, input model.ShowtimeInput) (model.Showtime, error) {
	if strings.TrimSpace(input.MovieID) == "" || strings.TrimSpace(input.RoomID) == "" {
		return model.Showtime{}, errors.New("movie id and room id are required")
	}
	if strings.TrimSpace(input.Date) == "" || strings.TrimSpace(input.Time) == "" {
		return model.Showtime{}, errors.New("date and time are required")
	}
	var data struct {
		Showtime model.Showtime `json:"showtime"`
	}
	if err := c.postJSON(ctx, "/showtimes", input, &data); err != nil {
		return model.Showtime{}, err
	}
	return data.Showtime, nil
}

func (c *Client) UpdateShowtime(ctx context.Context, id string, input model.ShowtimeInput) (model.Showtime, error) {
	if err := requireID("showtime", id); err != nil {
		return model.Showtime{}, err
	}
	var data struct {
		Showtime model.Showtime `json:"showtime"`
	}
	if err := c.putJSON(ctx, "/showtimes/"+url.PathEscape(id), input, &data); err != nil {
		return model.Showtime{}, err
	}
	return data.Showtime, nil
}

func (c *Client) DeleteShowtime(ctx context.Context, id string) error {
	if err := requireID("showtime", id); err != nil {
		return err
	}
	return c.deleteJSON(ctx, "/showtimes/"+url.PathEscape(id))
}

// ScheduleShowtimes asks the server to create showtimes over a date range.
// Slots that collide with existing showtimes come back as skipped.
func (c *Client) ScheduleShowtimes(ctx context.Context, req model.ScheduleRequest) (model.ScheduleResult, error) {
	if strings.TrimSpace(req.MovieID) == "" || strings.TrimSpace(req.RoomID) == "" {
		return model.ScheduleResult{}, errors.New("movie id and room id are required")
	}
	if len(req.Times) == 0 {
		return model.ScheduleResult{}, errors.New("at least one time is required")
	}
	var result model.ScheduleResult
	if err := c.postJSON(ctx, "/showtimes/schedule", req, &result); err != nil {
		return model.ScheduleResult{}, err
	}
	return result, nil
}
