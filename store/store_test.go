package store

import (
	"os"
	"path/filepath"
	"testing"

	"cineconnect-cli/model"
)

func setTestConfigDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	return root
}

func TestSession_RoundTrip(t *testing.T) {
	root := setTestConfigDir(t)

	if _, ok, err := LoadSession(); err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}

	saved := SavedSession{Token: "abc", User: model.User{Id: "u1", Email: "ana@example.com", Role: model.RoleCliente}}
	if err := SaveSession(saved); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	info, err := os.Stat(filepath.Join(root, appDir, sessionFile))
	if err != nil {
		t.Fatalf("expected session file, got %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}

	loaded, ok, err := LoadSession()
	if err != nil || !ok {
		t.Fatalf("expected saved session, got ok=%v err=%v", ok, err)
	}
	if loaded.Token != "abc" || loaded.User.Email != "ana@example.com" || loaded.SavedAt.IsZero() {
		t.Fatalf("unexpected session %+v", loaded)
	}

	if err := ClearSession(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok, _ := LoadSession(); ok {
		t.Fatal("expected session to be cleared")
	}
	if err := ClearSession(); err != nil {
		t.Fatalf("expected clearing twice to succeed, got %v", err)
	}
}

func TestSaveSession_RequiresToken(t *testing.T) {
	setTestConfigDir(t)

	if err := SaveSession(SavedSession{}); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestLoadSession_InvalidFile(t *testing.T) {
	root := setTestConfigDir(t)
	path := filepath.Join(root, appDir, sessionFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadSession(); err == nil {
		t.Fatal("expected error for corrupt session file")
	}
}

func TestGenreCache_Freshness(t *testing.T) {
	setTestConfigDir(t)

	if _, fresh, err := LoadGenreCache(); err != nil || fresh {
		t.Fatalf("expected empty stale cache, got fresh=%v err=%v", fresh, err)
	}
	if err := SaveGenreCache([]string{"Drama", "Terror"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	genres, fresh, err := LoadGenreCache()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !fresh || len(genres) != 2 {
		t.Fatalf("expected fresh cache with 2 genres, got fresh=%v %v", fresh, genres)
	}
}

func TestRememberMovie_MovesToFront(t *testing.T) {
	setTestConfigDir(t)

	for _, m := range []model.Movie{{Id: "1", Title: "Dune"}, {Id: "2", Title: "Alien"}, {Id: "1", Title: "Dune"}} {
		if err := RememberMovie(m); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}

	recent, err := LoadRecentMovies()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "1" || recent[1].ID != "2" {
		t.Fatalf("unexpected history %+v", recent)
	}
	if err := RememberMovie(model.Movie{}); err == nil {
		t.Fatal("expected error for empty movie id")
	}
}
