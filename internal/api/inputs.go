package api

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/heimdex/storyreel/internal/story"
)

// Defaults applied to blank request fields.
const (
	DefaultGenre       = story.DefaultGenre
	DefaultSetting     = "a quiet town on the edge of something new"
	DefaultProtagonist = "an unlikely hero"
	DefaultVibe        = "hopeful wonder"

	DefaultMaxFieldLen = 120
)

// FieldError reports a request field that failed validation.
type FieldError struct {
	Field string
	Limit int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s must be at most %d characters", e.Field, e.Limit)
}

// ResolveInputs trims every field, lowercases the genre, fills blanks with
// defaults and rejects fields longer than maxLen characters. maxLen <= 0 uses
// DefaultMaxFieldLen.
func ResolveInputs(req StoryRequest, maxLen int) (story.Request, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxFieldLen
	}

	fields := []struct {
		name  string
		value *string
		def   string
	}{
		{name: "genre", value: &req.Genre, def: DefaultGenre},
		{name: "setting", value: &req.Setting, def: DefaultSetting},
		{name: "protagonist", value: &req.Protagonist, def: DefaultProtagonist},
		{name: "vibe", value: &req.Vibe, def: DefaultVibe},
	}

	for _, f := range fields {
		v := strings.TrimSpace(*f.value)
		if utf8.RuneCountInString(v) > maxLen {
			return story.Request{}, &FieldError{Field: f.name, Limit: maxLen}
		}
		if v == "" {
			v = f.def
		}
		*f.value = v
	}

	return story.Request{
		Genre:       strings.ToLower(req.Genre),
		Setting:     req.Setting,
		Protagonist: req.Protagonist,
		Vibe:        req.Vibe,
	}, nil
}
