package story

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeNotes(t *testing.T) {
	req := mysteryRequest()
	b := DefaultCatalog().Resolve(req.Genre)
	scenes := BuildTimeline(Compose(req, b), req, b)

	notes := ComposeNotes(scenes, b)

	assert.Equal(t, VoiceOverScript(scenes), notes.VoiceOverScript)
	require.NotEmpty(t, notes.EditingNotes)
	require.NotEmpty(t, notes.ExportTips)
	for _, n := range append(append([]string{}, notes.EditingNotes...), notes.ExportTips...) {
		assert.NotEmpty(t, strings.TrimSpace(n))
	}

	assert.Contains(t, notes.EditingNotes[0], "5-second grid")
	assert.Contains(t, notes.EditingNotes[1], "00:15, 00:30 and 00:45")
	assert.Contains(t, notes.EditingNotes[2], b.Tone)
	assert.Contains(t, notes.MusicDirection, b.Pace)
	assert.Contains(t, notes.MusicDirection, b.Tone)
	assert.Contains(t, notes.MusicDirection, "00:30")
	assert.True(t, strings.HasSuffix(notes.MusicDirection, "01:00."))
	assert.Equal(t, 1, strings.Count(notes.MusicDirection, "."), "music direction is a single sentence")
}

func TestVoiceOverScript_Join(t *testing.T) {
	scenes := []Scene{{VoiceOver: "One."}, {VoiceOver: "Two three."}, {VoiceOver: "Four."}}
	assert.Equal(t, "One. Two three. Four.", VoiceOverScript(scenes))
	assert.Equal(t, "", VoiceOverScript(nil))
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "a", joinList([]string{"a"}))
	assert.Equal(t, "a and b", joinList([]string{"a", "b"}))
	assert.Equal(t, "a, b and c", joinList([]string{"a", "b", "c"}))
}
