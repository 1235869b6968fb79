package history

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultRecentLimit is how many generations Stats returns by default.
const DefaultRecentLimit = 20

// Recorder accepts finished generations for the usage log.
type Recorder interface {
	Record(ctx context.Context, g *Generation) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Record fills in missing identity fields and persists g.
func (s *Service) Record(ctx context.Context, g *Generation) error {
	if g == nil {
		return fmt.Errorf("generation is nil")
	}
	if g.ID == "" {
		g.ID = NewID()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now()
	}
	if g.Format == "" {
		g.Format = FormatJSON
	}
	g.Genre = clip(strings.TrimSpace(g.Genre), maxGenreLen)

	if err := s.repo.CreateGeneration(ctx, g); err != nil {
		return fmt.Errorf("record generation: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("generation recorded",
			"id", g.ID,
			"genre", g.ResolvedGenre,
			"fallback", g.Fallback,
			"format", g.Format,
		)
	}
	return nil
}

// Stats aggregates the usage log. recentLimit <= 0 uses DefaultRecentLimit.
func (s *Service) Stats(ctx context.Context, recentLimit int) (*Stats, error) {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}

	total, err := s.repo.CountGenerations(ctx)
	if err != nil {
		return nil, fmt.Errorf("count generations: %w", err)
	}
	byGenre, err := s.repo.CountByGenre(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by genre: %w", err)
	}
	fallbacks, err := s.repo.CountFallbacks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count fallbacks: %w", err)
	}
	recent, err := s.repo.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}

	if byGenre == nil {
		byGenre = []GenreCount{}
	}
	if recent == nil {
		recent = []*Generation{}
	}

	return &Stats{Total: total, ByGenre: byGenre, Fallbacks: fallbacks, Recent: recent}, nil
}

// EnsureInstanceID returns the persisted instance id, creating one on first run.
func (s *Service) EnsureInstanceID(ctx context.Context) (string, error) {
	return s.ensureSecret(ctx, ConfigInstanceID, 16)
}

// EnsureAuthToken returns the persisted bearer token for /api/stats, creating
// one on first run.
func (s *Service) EnsureAuthToken(ctx context.Context) (string, error) {
	return s.ensureSecret(ctx, ConfigAuthToken, 32)
}

// AuthToken returns the stored bearer token, or "" when none exists.
func (s *Service) AuthToken(ctx context.Context) (string, error) {
	return s.repo.GetConfig(ctx, ConfigAuthToken)
}

func (s *Service) ensureSecret(ctx context.Context, key string, size int) (string, error) {
	existing, err := s.repo.GetConfig(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	if existing != "" {
		return existing, nil
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	value := hex.EncodeToString(buf)

	if err := s.repo.SetConfig(ctx, key, value); err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return value, nil
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
