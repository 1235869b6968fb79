package export

import (
	"fmt"
	"strings"

	"github.com/heimdex/storyreel/internal/story"
)

// Supported export formats.
const (
	FormatText = "txt"
	FormatEDL  = "edl"
)

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	if format == FormatEDL {
		return "application/octet-stream"
	}
	return "text/plain; charset=utf-8"
}

// IsSupported reports whether format names a known export format.
func IsSupported(format string) bool {
	return format == FormatText || format == FormatEDL
}

// Render produces the export body for format.
func Render(res story.Result, title, format string) (string, error) {
	switch format {
	case FormatText:
		return Script(res, title), nil
	case FormatEDL:
		return GenerateEDL(res.CapCut.Scenes, title, DefaultFrameRate), nil
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

// Script renders a plain-text production sheet: the story, its beats, the
// scene table and the production notes.
func Script(res story.Result, title string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", len([]rune(title))))
	fmt.Fprintf(&b, "Tone: %s | Pace: %s | Words: %d\n\n", res.Tone, res.Pace, res.WordCount)

	b.WriteString("STORY\n\n")
	b.WriteString(res.Story)
	b.WriteString("\n\n")

	b.WriteString("BEATS\n\n")
	for i, beat := range res.Beats {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, beat.Label, beat.Description)
	}
	b.WriteString("\n")

	b.WriteString("CAPCUT PLAN\n\n")
	for _, s := range res.CapCut.Scenes {
		fmt.Fprintf(&b, "Scene %02d  %s-%s (%ds)\n", s.Index, s.Start, s.End, s.DurationSeconds)
		fmt.Fprintf(&b, "  Visual:  %s\n", s.VisualDirection)
		fmt.Fprintf(&b, "  Camera:  %s\n", s.CameraMovement)
		fmt.Fprintf(&b, "  VO:      %s\n", s.VoiceOver)
		fmt.Fprintf(&b, "  Overlay: %s\n", s.TextOverlay)
		fmt.Fprintf(&b, "  Sound:   %s\n", s.SoundDesign)
	}
	b.WriteString("\n")

	b.WriteString("VOICE-OVER SCRIPT\n\n")
	b.WriteString(res.CapCut.VoiceOverScript)
	b.WriteString("\n\n")

	writeList(&b, "EDITING NOTES", res.CapCut.EditingNotes)

	b.WriteString("MUSIC\n\n")
	b.WriteString(res.CapCut.MusicDirection)
	b.WriteString("\n\n")

	writeList(&b, "EXPORT TIPS", res.CapCut.ExportTips)

	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	b.WriteString(heading)
	b.WriteString("\n\n")
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// Filename builds a download-safe file name such as
// "storyreel_mystery_nadia.txt".
func Filename(genre, protagonist, format string) string {
	parts := []string{"storyreel"}
	for _, p := range []string{genre, protagonist} {
		if clean := Slug(p, 40); clean != "" {
			parts = append(parts, clean)
		}
	}
	return strings.Join(parts, "_") + "." + format
}

// Title is the human-readable heading used inside exports.
func Title(genreName, protagonist string) string {
	name := SanitizeName(protagonist, 80)
	if name == "" {
		return genreName + " story"
	}
	return fmt.Sprintf("%s story: %s", genreName, name)
}
