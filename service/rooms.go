package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"cineconnect-cli/model"
)

func (c *Client) ListRooms(ctx context.Context, filter model.RoomFilter) ([]model.Room, error) {
	query := url.Values{}
	setIf(query, "search", filter.Search)
	setIf(query, "status", filter.Status)
	setIf(query, "type", filter.Type)
	setIf(query, "location", filter.Location)

	var data struct {
		Rooms []model.Room `json:"rooms"`
	}
	if err := c.getJSON(ctx, "/rooms", query, &data); err != nil {
		return nil, err
	}
	return data.Rooms, nil
}

// GetRoom fetches one room with its seat layout. Older deployments return
// the room bare in data instead of under data.room; both are accepted.
func (c *Client) GetRoom(ctx context.Context, id string) (model.Room, error) {
	if err := requireID("room", id); err != nil {
		return model.Room{}, err
	}
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/rooms/"+url.PathEscape(id), nil, &raw); err != nil {
		return model.Room{}, err
	}
	return decodeRoom(raw)
}

func (c *Client) CreateRoom(ctx context.Context, input model.RoomInput) (model.Room, error) {
	if strings.TrimSpace(input.Name) == "" {
		return model.Room{}, fmt.Errorf("room name is required")
	}
	if input.Capacity <= 0 {
		return model.Room{}, fmt.Errorf("room capacity must be positive")
	}
	var raw json.RawMessage
	if err := c.postJSON(ctx, "/rooms", input, &raw); err != nil {
		return model.Room{}, err
	}
	return decodeRoom(raw)
}

func (c *Client) UpdateRoom(ctx context.Context, id string, input model.RoomInput) (model.Room, error) {
	if err := requireID("room", id); err != nil {
		return model.Room{}, err
	}
	var raw json.RawMessage
	if err := c.putJSON(ctx, "/rooms/"+url.PathEscape(id), input, &raw); err != nil {
		return model.Room{}, err
	}
	return decodeRoom(raw)
}

func (c *Client) DeleteRoom(ctx context.Context, id string) error {
	if err := requireID("room", id); err != nil {
		return err
	}
	return c.deleteJSON(ctx, "/rooms/"+url.PathEscape(id))
}

// ListRoomLocations returns the cinema locations rooms can belong to.
func (c *Client) ListRoomLocations(ctx context.Context) ([]string, error) {
	var data struct {
		Locations []string `json:"locations"`
	}
	if err := c.getJSON(ctx, "/rooms/locations", nil, &data); err != nil {
		return nil, err
	}
	return data.Locations, nil
}

func decodeRoom(raw json.RawMessage) (model.Room, error) {
	if len(raw) == 0 {
		return model.Room{}, nil
	}
	body := raw
	if nested := gjson.GetBytes(raw, "room"); nested.IsObject() {
		body = json.RawMessage(nested.Raw)
	}
	var room model.Room
	if err := json.Unmarshal(body, &room); err != nil {
		return model.Room{}, fmt.Errorf("decode room: %w", err)
	}
	return room, nil
}
