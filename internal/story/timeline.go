package story

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stageShots holds three distinct shot templates per beat, one per scene.
var stageShots = [BeatCount][ScenesPerBeat]string{
	{
		"Wide establishing shot of {setting}",
		"Slow detail pass over {image}",
		"Medium shot introducing {protagonist}",
	},
	{
		"Tracking shot following {protagonist} through {setting}",
		"Tight close-up on {image}",
		"Over-the-shoulder shot as the pressure builds",
	},
	{
		"Extreme close-up as the truth lands",
		"Low-angle shot of {protagonist}",
		"Quick-cut montage of {image}",
	},
	{
		"Wide pull-back revealing {setting}",
		"Soft close-up of {protagonist}",
		"Final lingering frame on {image}",
	},
}

var stageIntensity = [BeatCount]string{
	"low under the narration",
	"building beneath the voice-over",
	"peaking on the cut",
	"easing out to silence",
}

// pacingQualifiers are appended to a field that would otherwise repeat
// verbatim within a beat.
var pacingQualifiers = []string{
	"(hold a beat longer)",
	"(tighter cut)",
	"(slower push)",
	"(alternate angle)",
}

const headlineWords = 4

// BuildTimeline maps the narrative's beats onto SceneCount contiguous scenes
// covering TimelineSeconds.
func BuildTimeline(n Narrative, req Request, b Bundle) []Scene {
	v := newVoice(req)
	durations := partitionDurations(TimelineSeconds, SceneCount)
	title := cases.Title(language.English)
	upper := cases.Upper(language.English)

	scenes := make([]Scene, 0, SceneCount)
	offset := 0
	for beatIdx := 0; beatIdx < BeatCount; beatIdx++ {
		var beat Beat
		if beatIdx < len(n.Beats) {
			beat = n.Beats[beatIdx]
		}
		voiceOvers := splitLines(beat.lines, ScenesPerBeat)

		group := make([]Scene, ScenesPerBeat)
		for j := 0; j < ScenesPerBeat; j++ {
			idx := beatIdx*ScenesPerBeat + j
			dur := durations[idx]

			image := b.Imagery[idx%len(b.Imagery)]
			shot := strings.NewReplacer(
				"{setting}", v.setting,
				"{protagonist}", v.protagonist,
				"{image}", image,
			).Replace(stageShots[beatIdx][j])

			overlay := headline(title, voiceOvers[j])
			if j == 0 {
				overlay = upper.String(beat.Label)
			}

			group[j] = Scene{
				Index:           idx + 1,
				Start:           FormatTimestamp(offset),
				End:             FormatTimestamp(offset + dur),
				DurationSeconds: dur,
				VisualDirection: fmt.Sprintf("%s, graded toward %s", shot, b.Grade),
				CameraMovement:  b.Cameras[idx%len(b.Cameras)],
				VoiceOver:       voiceOvers[j],
				TextOverlay:     overlay,
				SoundDesign:     fmt.Sprintf("%s, %s", b.Sounds[idx%len(b.Sounds)], stageIntensity[beatIdx]),
			}
			offset += dur
		}

		distinctWithinBeat(group, beat.Label)
		scenes = append(scenes, group...)
	}
	return scenes
}

// partitionDurations splits total seconds evenly across count scenes. The
// final scene absorbs any remainder so the durations always sum to total.
func partitionDurations(total, count int) []int {
	if count <= 0 {
		return nil
	}
	base := total / count
	out := make([]int, count)
	for i := range out {
		out[i] = base
	}
	out[count-1] += total - base*count
	return out
}

// FormatTimestamp renders seconds as mm:ss.
func FormatTimestamp(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// splitLines groups lines into parts contiguous, non-empty chunks whose
// concatenation reproduces the input. When there are fewer lines than parts
// the words are split instead. Chunks may be empty only when there are fewer
// words than parts.
func splitLines(lines []string, parts int) []string {
	units := lines
	if len(units) < parts {
		units = strings.Fields(strings.Join(lines, " "))
	}

	out := make([]string, parts)
	base, rem := len(units)/parts, len(units)%parts
	pos := 0
	for i := 0; i < parts; i++ {
		size := base
		if i < rem {
			size++
		}
		out[i] = strings.Join(units[pos:pos+size], " ")
		pos += size
	}
	return out
}

func headline(title cases.Caser, text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	cut := len(words) > headlineWords
	if cut {
		words = words[:headlineWords]
	}
	h := strings.TrimRight(strings.Join(words, " "), ".,;:!?")
	h = title.String(h)
	if cut {
		h += "..."
	}
	return h
}

// distinctWithinBeat guarantees every field of every scene in the group is
// non-empty and that no field repeats verbatim within the group.
func distinctWithinBeat(group []Scene, label string) {
	if label == "" {
		label = "this"
	}
	fields := []struct {
		get      func(*Scene) *string
		fallback string
	}{
		{func(s *Scene) *string { return &s.VisualDirection }, "Hold on the " + strings.ToLower(label) + " moment"},
		{func(s *Scene) *string { return &s.CameraMovement }, "Locked-off static frame"},
		{func(s *Scene) *string { return &s.VoiceOver }, label + "."},
		{func(s *Scene) *string { return &s.TextOverlay }, label},
		{func(s *Scene) *string { return &s.SoundDesign }, "Room tone"},
	}

	for _, f := range fields {
		seen := make(map[string]bool, len(group))
		for i := range group {
			p := f.get(&group[i])
			if strings.TrimSpace(*p) == "" {
				*p = f.fallback
			}
			base := *p
			for q := 0; seen[*p]; q++ {
				suffix := pacingQualifiers[q%len(pacingQualifiers)]
				if q >= len(pacingQualifiers) {
					suffix = fmt.Sprintf("%s %d", suffix, q/len(pacingQualifiers)+1)
				}
				*p = base + " " + suffix
			}
			seen[*p] = true
		}
	}
}
