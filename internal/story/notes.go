package story

import (
	"fmt"
	"strings"
)

// Notes is the production text derived from a scene timeline.
type Notes struct {
	VoiceOverScript string
	EditingNotes    []string
	MusicDirection  string
	ExportTips      []string
}

// ComposeNotes derives the voice-over script, editing notes, music direction
// and export tips from scenes and the genre bundle.
func ComposeNotes(scenes []Scene, b Bundle) Notes {
	script := VoiceOverScript(scenes)

	grid := TimelineSeconds / SceneCount
	if len(scenes) > 0 {
		grid = scenes[0].DurationSeconds
	}
	boundaries := beatBoundaries(scenes)
	end := FormatTimestamp(TimelineSeconds)
	turnAt := FormatTimestamp(TimelineSeconds / 2)
	if len(scenes) > 0 {
		end = scenes[len(scenes)-1].End
	}
	if len(boundaries) >= 2 {
		turnAt = boundaries[1]
	}

	editing := []string{
		fmt.Sprintf("Cut on a %d-second grid: %d scenes, %d per beat, at a %s pace throughout.", grid, len(scenes), ScenesPerBeat, b.Pace),
		fmt.Sprintf("Land each beat change on a hard cut at %s.", joinList(boundaries)),
		fmt.Sprintf("Grade the whole piece toward %s to hold the %s tone.", b.Grade, b.Tone),
		b.Transition,
		"Keep each text overlay on screen for at least two seconds in the upper third, clear of captions.",
		fmt.Sprintf("Duck the music about 6 dB under the voice-over; the full script runs %d words.", wordCount(script)),
	}

	music := fmt.Sprintf("%s at a %s pace that carries the %s tone, building toward the turn at %s and resolving by %s.",
		capitalize(b.Music), b.Pace, b.Tone, turnAt, end)

	tips := []string{
		"Export vertical 1080x1920 (9:16) for Shorts, Reels and TikTok.",
		fmt.Sprintf("Use 30 fps so every %d-second scene lands on a whole frame count.", grid),
		"Render at a high bitrate (around 16 Mbps) so gradients survive platform compression.",
		"Burn in captions from the voice-over script; many viewers watch muted.",
		fmt.Sprintf("Name the export after the %s piece and keep the scene numbers in the project bin.", b.Name),
	}

	return Notes{
		VoiceOverScript: script,
		EditingNotes:    editing,
		MusicDirection:  music,
		ExportTips:      tips,
	}
}

// VoiceOverScript joins the scenes' voice-over lines in index order.
func VoiceOverScript(scenes []Scene) string {
	parts := make([]string, 0, len(scenes))
	for _, s := range scenes {
		parts = append(parts, s.VoiceOver)
	}
	return strings.Join(parts, " ")
}

// beatBoundaries returns the start timestamps of every beat after the first.
func beatBoundaries(scenes []Scene) []string {
	var out []string
	for i := ScenesPerBeat; i < len(scenes); i += ScenesPerBeat {
		out = append(out, scenes[i].Start)
	}
	return out
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return "every beat change"
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
