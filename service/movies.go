package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"cineconnect-cli/catalog"
	"cineconnect-cli/model"
)

// allGenres is the UI's "no genre filter" value; the backend does not know it.
const allGenres = "Todos"

// ListMovies returns one page of the catalog. Without a status filter the
// backend only returns active movies.
func (c *Client) ListMovies(ctx context.Context, filter model.MovieFilter) ([]model.Movie, model.Pagination, error) {
	query := url.Values{}
	setIf(query, "search", filter.Search)
	if !strings.EqualFold(strings.TrimSpace(filter.Genre), allGenres) {
		setIf(query, "genre", filter.Genre)
	}
	setIf(query, "status", filter.Status)
	setIntIf(query, "page", filter.Page)
	setIntIf(query, "limit", filter.Limit)

	var data struct {
		Movies     []model.Movie    `json:"movies"`
		Pagination model.Pagination `json:"pagination"`
	}
	if err := c.getJSON(ctx, "/movies", query, &data); err != nil {
		return nil, model.Pagination{}, err
	}
	return data.Movies, data.Pagination, nil
}

// ListAllMovies fetches active and inactive movies concurrently and merges
// them for the admin catalog, active first and newest release first.
func (c *Client) ListAllMovies(ctx context.Context, filter model.MovieFilter) ([]model.Movie, error) {
	statuses := []string{model.MovieStatusActive, model.MovieStatusInactive}
	pages := make([][]model.Movie, len(statuses))

	g, gctx := errgroup.WithContext(ctx)
	for i, status := range statuses {
		g.Go(func() error {
			f := filter
			f.Status = status
			f.Page = 1
			movies, _, err := c.ListMovies(gctx, f)
			if err != nil {
				return fmt.Errorf("list %s movies: %w", status, err)
			}
			pages[i] = movies
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Movie
	for _, page := range pages {
		all = append(all, page...)
	}
	return catalog.SortForAdmin(all), nil
}

func (c *Client) GetMovie(ctx context.Context, id string) (model.Movie, error) {
	if err := requireID("movie", id); err != nil {
		return model.Movie{}, err
	}
	var data struct {
		Movie model.Movie `json:"movie"`
	}
	if err := c.getJSON(ctx, "/movies/"+url.PathEscape(id), nil, &data); err != nil {
		return model.Movie{}, err
	}
	return data.Movie, nil
}

func (c *Client) ListGenres(ctx context.Context) ([]string, error) {
	var data struct {
		Genres []string `json:"genres"`
	}
	if err := c.getJSON(ctx, "/movies/genres", nil, &data); err != nil {
		return nil, err
	}
	return data.Genres, nil
}

func (c *Client) CreateMovie(ctx context.Context, input model.MovieInput) (model.Movie, error) {
	if strings.TrimSpace(input.Title) == "" {
		return model.Movie{}, fmt.Errorf("movie title is required")
	}
	var data struct {
		Movie model.Movie `json:"movie"`
	}
	if err := c.postJSON(ctx, "/movies", input, &data); err != nil {
		return model.Movie{}, err
	}
	return data.Movie, nil
}

func (c *Client) UpdateMovie(ctx context.Context, id string, input model.MovieInput) (model.Movie, error) {
	if err := requireID("movie", id); err != nil {
		return model.Movie{}, err
	}
	var data struct {
		Movie model.Movie `json:"movie"`
	}
	if err := c.putJSON(ctx, "/movies/"+url.PathEscape(id), input, &data); err != nil {
		return model.Movie{}, err
	}
	return data.Movie, nil
}

func (c *Client) DeleteMovie(ctx context.Context, id string) error {
	if err := requireID("movie", id); err != nil {
		return err
	}
	return c.deleteJSON(ctx, "/movies/"+url.PathEscape(id))
}
