package api

import (
	"github.com/heimdex/storyreel/internal/history"
	"github.com/heimdex/storyreel/internal/story"
)

type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	UptimeS    int64  `json:"uptime_s"`
	InstanceID string `json:"instance_id"`
	Database   string `json:"database"`
}

type GenresResponse struct {
	Default string         `json:"default"`
	Genres  []story.Bundle `json:"genres"`
}

// StoryRequest is the JSON body accepted by the story endpoints. Every field
// is optional.
type StoryRequest struct {
	Genre       string `json:"genre"`
	Setting     string `json:"setting"`
	Protagonist string `json:"protagonist"`
	Vibe        string `json:"vibe"`
}

type StoryResponse struct {
	OK          bool          `json:"ok"`
	GeneratedAt string        `json:"generatedAt"`
	Inputs      story.Request `json:"inputs"`
	Story       story.Result  `json:"story"`
}

type StatsResponse struct {
	Total     int                   `json:"total"`
	ByGenre   []history.GenreCount  `json:"by_genre"`
	Fallbacks int                   `json:"fallbacks"`
	Recent    []*history.Generation `json:"recent"`
}

type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func StatsToResponse(s *history.Stats) StatsResponse {
	return StatsResponse{
		Total:     s.Total,
		ByGenre:   s.ByGenre,
		Fallbacks: s.Fallbacks,
		Recent:    s.Recent,
	}
}
