package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cineconnect-cli/model"
)

const defaultUserBookingsLimit = 50

// CreateBooking commits the seats. The server performs the atomic
// check-and-reserve; a seat taken in the meantime comes back as an
// *APIError carrying the server message.
func (c *Client) CreateBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error) {
	if strings.TrimSpace(req.ShowtimeID) == "" {
		return model.Booking{}, errors.New("showtime id is required")
	}
	if len(req.SeatIDs) == 0 {
		return model.Booking{}, errors.New("at least one seat is required")
	}
	var data struct {
		Booking model.Booking `json:"booking"`
	}
	if err := c.postJSON(ctx, "/bookings", req, &data); err != nil {
		return model.Booking{}, err
	}
	return data.Booking, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	if err := requireID("booking", id); err != nil {
		return model.Booking{}, err
	}
	var data struct {
		Booking model.Booking `json:"booking"`
	}
	if err := c.getJSON(ctx, "/bookings/"+url.PathEscape(id), nil, &data); err != nil {
		return model.Booking{}, err
	}
	return data.Booking, nil
}

// ListBookings lists the bookings of the authenticated user.
func (c *Client) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var data struct {
		Bookings []model.Booking `json:"bookings"`
	}
	if err := c.getJSON(ctx, "/bookings", nil, &data); err != nil {
		return nil, err
	}
	return data.Bookings, nil
}

// ListUserBookings is the profile history view. Receipt URLs are returned
// absolute.
func (c *Client) ListUserBookings(ctx context.Context, limit int) ([]model.Booking, error) {
	if limit <= 0 {
		limit = defaultUserBookingsLimit
	}
	query := url.Values{}
	query.Set("limit", fmt.Sprint(limit))

	var data struct {
		Bookings []model.Booking `json:"bookings"`
	}
	if err := c.getJSON(ctx, "/bookings/user", query, &data); err != nil {
		return nil, err
	}
	for i := range data.Bookings {
		data.Bookings[i].ReceiptURL = c.absoluteURL(data.Bookings[i].ReceiptURL)
	}
	return data.Bookings, nil
}

// GetReceipt returns the receipt reference of a booking. bookingID is the
// booking id, not the transaction id.
func (c *Client) GetReceipt(ctx context.Context, bookingID string) (model.Receipt, error) {
	if err := requireID("booking", bookingID); err != nil {
		return model.Receipt{}, err
	}
	var receipt model.Receipt
	if err := c.getJSON(ctx, "/bookings/"+url.PathEscape(bookingID)+"/receipt", nil, &receipt); err != nil {
		return model.Receipt{}, err
	}
	if receipt.DownloadURL == "" && receipt.RelativeURL != "" {
		receipt.DownloadURL = c.absoluteURL(receipt.RelativeURL)
	}
	if receipt.DownloadURL == "" {
		return model.Receipt{}, errors.New("receipt has no download url")
	}
	return receipt, nil
}

// DownloadReceipt writes the receipt file to w and returns its suggested
// file name.
func (c *Client) DownloadReceipt(ctx context.Context, bookingID string, w io.Writer) (string, error) {
	receipt, err := c.GetReceipt(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if _, err := c.stream(ctx, receipt.DownloadURL, nil, w); err != nil {
		return "", err
	}
	name := receipt.Filename
	if name == "" {
		name = "recibo.pdf"
	}
	return name, nil
}

func (c *Client) absoluteURL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.ServerURL() + ref
}
