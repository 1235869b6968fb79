// Package history keeps a metadata-only usage log of story generations. No
// story text or user input beyond the requested genre is stored.
package history

import (
	"time"

	"github.com/google/uuid"
)

// Output formats a generation can be recorded under.
const (
	FormatJSON = "json"
	FormatText = "txt"
	FormatEDL  = "edl"
)

// Config keys stored in the config table.
const (
	ConfigInstanceID = "instance_id"
	ConfigAuthToken  = "auth_token"
)

// maxGenreLen caps the stored requested-genre string.
const maxGenreLen = 64

type Generation struct {
	ID            string    `json:"id"`
	Genre         string    `json:"genre"`
	ResolvedGenre string    `json:"resolved_genre"`
	Fallback      bool      `json:"fallback"`
	WordCount     int       `json:"word_count"`
	SceneCount    int       `json:"scene_count"`
	DurationMs    int64     `json:"duration_ms"`
	Format        string    `json:"format"`
	CreatedAt     time.Time `json:"created_at"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

type Stats struct {
	Total     int           `json:"total"`
	ByGenre   []GenreCount  `json:"by_genre"`
	Fallbacks int           `json:"fallbacks"`
	Recent    []*Generation `json:"recent"`
}

func NewID() string {
	return uuid.NewString()
}
