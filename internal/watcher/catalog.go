package watcher

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/heimdex/storyreel/internal/story"
)

// CatalogReloader keeps a generator's catalog in sync with a YAML file.
type CatalogReloader struct {
	generator *story.Generator
	logger    *slog.Logger
}

func NewCatalogReloader(g *story.Generator, logger *slog.Logger) *CatalogReloader {
	return &CatalogReloader{generator: g, logger: logger}
}

// Load parses the catalog at path and installs it. On error the current
// catalog stays in place.
func (r *CatalogReloader) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	c, err := story.ParseCatalog(data)
	if err != nil {
		return fmt.Errorf("parse catalog %s: %w", path, err)
	}

	r.generator.SetCatalog(c)
	r.logger.Info("genre catalog loaded", "path", path, "genres", len(c.Genres()), "default", c.Default().Key)
	return nil
}

// Handle is a Watcher callback. A deleted file leaves the last good catalog
// active.
func (r *CatalogReloader) Handle(path string, event EventType) {
	if event == EventDelete {
		r.logger.Warn("genre catalog removed, keeping current catalog", "path", path)
		return
	}
	if err := r.Load(path); err != nil {
		r.logger.Error("genre catalog reload failed", "path", path, "event", event.String(), "error", err)
	}
}
