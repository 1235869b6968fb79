package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/heimdex/storyreel/internal/db"
)

func setupTestDB(t *testing.T) (*db.DB, Repository) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.New(dbPath, nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database, NewRepository(database.Conn())
}

func TestService_RecordRoundTrip(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	g := &Generation{
		Genre:         "Noir",
		ResolvedGenre: "mystery",
		WordCount:     173,
		SceneCount:    12,
		DurationMs:    3,
	}
	if err := svc.Record(ctx, g); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if g.ID == "" {
		t.Fatal("Record() did not assign an ID")
	}
	if g.Format != FormatJSON {
		t.Errorf("Format = %q, want %q", g.Format, FormatJSON)
	}

	recent, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("ListRecent() returned %d rows, want 1", len(recent))
	}
	got := recent[0]
	if got.ID != g.ID || got.Genre != "Noir" || got.ResolvedGenre != "mystery" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.WordCount != 173 || got.SceneCount != 12 || got.DurationMs != 3 || got.Fallback {
		t.Errorf("round trip counters mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(g.CreatedAt.UTC()) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, g.CreatedAt)
	}
}

func TestService_Stats(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	records := []*Generation{
		{Genre: "mystery", ResolvedGenre: "mystery"},
		{Genre: "noir", ResolvedGenre: "mystery"},
		{Genre: "unknown-xyz", ResolvedGenre: "adventure", Fallback: true},
		{Genre: "horror", ResolvedGenre: "horror", Format: FormatEDL},
	}
	for i, g := range records {
		g.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		if err := svc.Record(ctx, g); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	stats, err := svc.Stats(ctx, 2)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if stats.Fallbacks != 1 {
		t.Errorf("Fallbacks = %d, want 1", stats.Fallbacks)
	}
	if len(stats.ByGenre) != 3 {
		t.Fatalf("ByGenre = %v, want 3 entries", stats.ByGenre)
	}
	if stats.ByGenre[0] != (GenreCount{Genre: "mystery", Count: 2}) {
		t.Errorf("ByGenre[0] = %+v, want mystery=2", stats.ByGenre[0])
	}
	if len(stats.Recent) != 2 {
		t.Fatalf("Recent = %d entries, want 2", len(stats.Recent))
	}
	if stats.Recent[0].ResolvedGenre != "horror" || stats.Recent[0].Format != FormatEDL {
		t.Errorf("Recent[0] = %+v, want the latest horror edl", stats.Recent[0])
	}
}

func TestService_StatsEmpty(t *testing.T) {
	_, repo := setupTestDB(t)
	stats, err := NewService(repo, nil).Stats(context.Background(), 0)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 0 || stats.ByGenre == nil || stats.Recent == nil {
		t.Errorf("empty stats = %+v, want zero total and non-nil slices", stats)
	}
}

func TestService_RecordClipsGenre(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, nil)

	long := ""
	for i := 0; i < 100; i++ {
		long += "x"
	}
	g := &Generation{Genre: long, ResolvedGenre: "adventure", Fallback: true}
	if err := svc.Record(context.Background(), g); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(g.Genre) != maxGenreLen {
		t.Errorf("len(Genre) = %d, want %d", len(g.Genre), maxGenreLen)
	}
}

func TestService_RecordNil(t *testing.T) {
	_, repo := setupTestDB(t)
	if err := NewService(repo, nil).Record(context.Background(), nil); err == nil {
		t.Fatal("Record(nil) expected error")
	}
}

func TestService_EnsureSecretsAreStable(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	token, err := svc.EnsureAuthToken(ctx)
	if err != nil {
		t.Fatalf("EnsureAuthToken() error = %v", err)
	}
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64", len(token))
	}
	again, err := svc.EnsureAuthToken(ctx)
	if err != nil {
		t.Fatalf("second EnsureAuthToken() error = %v", err)
	}
	if again != token {
		t.Error("EnsureAuthToken() must return the stored token")
	}
	stored, err := svc.AuthToken(ctx)
	if err != nil || stored != token {
		t.Errorf("AuthToken() = %q, %v", stored, err)
	}

	id, err := svc.EnsureInstanceID(ctx)
	if err != nil {
		t.Fatalf("EnsureInstanceID() error = %v", err)
	}
	if len(id) != 32 || id == token {
		t.Errorf("instance id = %q, want 32 hex chars distinct from token", id)
	}
}

// flakyConfigRepo fails config reads and counts config writes.
type flakyConfigRepo struct {
	Repository
	readErr error
	writes  int
}

func (r *flakyConfigRepo) GetConfig(ctx context.Context, key string) (string, error) {
	return "", r.readErr
}

func (r *flakyConfigRepo) SetConfig(ctx context.Context, key, value string) error {
	r.writes++
	return nil
}

func TestService_EnsureAuthToken_ReadErrorKeepsStoredToken(t *testing.T) {
	repo := &flakyConfigRepo{readErr: errors.New("database is locked")}
	svc := NewService(repo, nil)

	token, err := svc.EnsureAuthToken(context.Background())
	if err == nil {
		t.Fatalf("EnsureAuthToken() = %q, want error", token)
	}
	if !errors.Is(err, repo.readErr) {
		t.Errorf("error = %v, want wrapped read error", err)
	}
	if repo.writes != 0 {
		t.Errorf("SetConfig called %d times, want 0", repo.writes)
	}
}
