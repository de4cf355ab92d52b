package service

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"cineconnect-cli/model"
)

const (
	defaultPeriod      = "week"
	defaultGenrePeriod = "month"
)

func periodQuery(period string, def string) url.Values {
	if period == "" {
		period = def
	}
	query := url.Values{}
	query.Set("period", period)
	return query
}

func (c *Client) Stats(ctx context.Context, period string) (model.DashboardStats, error) {
	var data struct {
		Stats model.DashboardStats `json:"stats"`
	}
	if err := c.getJSON(ctx, "/dashboard/stats", periodQuery(period, defaultPeriod), &data); err != nil {
		return model.DashboardStats{}, err
	}
	return data.Stats, nil
}

func (c *Client) SalesByMovie(ctx context.Context, period string) ([]model.MovieSales, error) {
	var data struct {
		Sales []model.MovieSales `json:"salesByMovie"`
	}
	if err := c.getJSON(ctx, "/dashboard/sales-by-movie", periodQuery(period, defaultPeriod), &data); err != nil {
		return nil, err
	}
	return data.Sales, nil
}

func (c *Client) DailyTrends(ctx context.Context, period string) ([]model.DailyTrend, error) {
	var data struct {
		Trends []model.DailyTrend `json:"dailyTrends"`
	}
	if err := c.getJSON(ctx, "/dashboard/daily-trends", periodQuery(period, defaultPeriod), &data); err != nil {
		return nil, err
	}
	return data.Trends, nil
}

func (c *Client) GenreDistribution(ctx context.Context, period string) ([]model.GenreShare, error) {
	var data struct {
		Genres []model.GenreShare `json:"genreDistribution"`
	}
	if err := c.getJSON(ctx, "/dashboard/genre-distribution", periodQuery(period, defaultGenrePeriod), &data); err != nil {
		return nil, err
	}
	return data.Genres, nil
}

func (c *Client) RoomOccupancy(ctx context.Context, filter model.OccupancyFilter) (model.OccupancyReport, error) {
	query := url.Values{}
	setIf(query, "location", filter.Location)
	setIf(query, "period", filter.Period)
	setIf(query, "customDate", filter.CustomDate)

	var report model.OccupancyReport
	if err := c.getJSON(ctx, "/dashboard/room-occupancy", query, &report); err != nil {
		return model.OccupancyReport{}, err
	}
	return report, nil
}

// Locations lists the cinema locations that have occupancy data.
func (c *Client) Locations(ctx context.Context) ([]string, error) {
	var data struct {
		Locations []string `json:"locations"`
		Total     int      `json:"total"`
	}
	if err := c.getJSON(ctx, "/dashboard/locations", nil, &data); err != nil {
		return nil, err
	}
	return data.Locations, nil
}

// ExportReport streams the sales report for period into w. It returns the
// file name the dashboard would have used.
func (c *Client) ExportReport(ctx context.Context, period string, format string, w io.Writer) (string, error) {
	if format == "" {
		format = model.ReportFormatExcel
	}
	if format != model.ReportFormatExcel && format != model.ReportFormatPDF {
		return "", fmt.Errorf("unsupported report format %q", format)
	}
	query := periodQuery(period, defaultPeriod)
	query.Set("format", format)
	if _, err := c.stream(ctx, "/dashboard/export-report", query, w); err != nil {
		return "", err
	}
	return ReportFilename(query.Get("period"), format), nil
}

// ReportFilename names an exported report, e.g. reporte-ventas-week.xlsx.
func ReportFilename(period string, format string) string {
	ext := "xlsx"
	if format == model.ReportFormatPDF {
		ext = "pdf"
	}
	return fmt.Sprintf("reporte-ventas-%s.%s", period, ext)
}
