package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cineconnect-cli/model"
)

const (
	appDir          = "cineconnect-cli"
	sessionFile     = "session.json"
	genreCacheTTL   = 24 * time.Hour
	maxRecentMovies = 8
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

// SavedSession is what survives between runs: the bearer token and the
// user it was issued to.
type SavedSession struct {
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	SavedAt time.Time  `json:"saved_at"`
}

type RecentMovie struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type movieHistory struct {
	Movies []RecentMovie `json:"movies"`
}

// LoadSession returns the saved session. ok is false when none is saved.
func LoadSession() (SavedSession, bool, error) {
	path, err := configPath(sessionFile)
	if err != nil {
		return SavedSession{}, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SavedSession{}, false, nil
		}
		return SavedSession{}, false, err
	}
	var saved SavedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		return SavedSession{}, false, errors.New("invalid session file format")
	}
	if strings.TrimSpace(saved.Token) == "" {
		return SavedSession{}, false, nil
	}
	return saved, true, nil
}

// SaveSession writes the session readable by the current user only.
func SaveSession(saved SavedSession) error {
	if strings.TrimSpace(saved.Token) == "" {
		return errors.New("session token is required")
	}
	path, err := configPath(sessionFile)
	if err != nil {
		return err
	}
	if saved.SavedAt.IsZero() {
		saved.SavedAt = time.Now()
	}
	return writeJSON(path, saved, 0o600)
}

// ClearSession removes the saved session. A missing file is not an error.
func ClearSession() error {
	path, err := configPath(sessionFile)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// FileSessionStore adapts the package-level session functions to the
// token store the session layer expects.
type FileSessionStore struct{}

func (FileSessionStore) Load() (SavedSession, bool, error) { return LoadSession() }
func (FileSessionStore) Save(s SavedSession) error         { return SaveSession(s) }
func (FileSessionStore) Clear() error                      { return ClearSession() }

// LoadGenreCache returns the cached genre list and whether it is fresh.
func LoadGenreCache() ([]string, bool, error) {
	path, err := cachePath("genres.json")
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]string](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, len(cache.Data) > 0 && time.Since(cache.UpdatedAt) <= genreCacheTTL, nil
}

func SaveGenreCache(genres []string) error {
	path, err := cachePath("genres.json")
	if err != nil {
		return err
	}
	return saveCache(path, genres)
}

func LoadRecentMovies() ([]RecentMovie, error) {
	path, err := configPath("history.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history movieHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid movie history format")
	}
	return history.Movies, nil
}

// RememberMovie moves movie to the front of the recent list.
func RememberMovie(movie model.Movie) error {
	if strings.TrimSpace(movie.Id) == "" {
		return errors.New("movie id is required")
	}
	history, _ := LoadRecentMovies()
	next := []RecentMovie{{ID: movie.Id, Title: movie.Title}}

	for _, existing := range history {
		if existing.ID == movie.Id {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentMovies {
			break
		}
	}

	path, err := configPath("history.json")
	if err != nil {
		return err
	}
	return writeJSON(path, movieHistory{Movies: next}, 0o644)
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	return writeJSON(path, cache, 0o644)
}

func writeJSON(path string, value any, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, payload, perm); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, perm)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}
