package story

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Loads(t *testing.T) {
	c := DefaultCatalog()
	require.NotNil(t, c)

	genres := c.Genres()
	require.NotEmpty(t, genres)
	for i := 1; i < len(genres); i++ {
		assert.Less(t, genres[i-1].Key, genres[i].Key, "genres must be sorted by key")
	}

	assert.Equal(t, DefaultGenre, c.Default().Key)
}

func TestCatalog_LookupCaseInsensitive(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		in   string
		want string
	}{
		{in: "mystery", want: "mystery"},
		{in: "MYSTERY", want: "mystery"},
		{in: "  Mystery ", want: "mystery"},
		{in: "noir", want: "mystery"},
		{in: "Sci_Fi", want: "sci-fi"},
		{in: "science   fiction", want: "sci-fi"},
		{in: "Fairy Tale", want: "fantasy"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			b, ok := c.Lookup(tc.in)
			require.True(t, ok)
			assert.Equal(t, tc.want, b.Key)
		})
	}
}

func TestCatalog_ResolveFallsBack(t *testing.T) {
	c := DefaultCatalog()

	_, ok := c.Lookup("unknown-xyz")
	assert.False(t, ok)

	b, fallback := c.resolve("unknown-xyz")
	assert.True(t, fallback)
	assert.Equal(t, DefaultGenre, b.Key)
	assert.Equal(t, c.Default().Tone, c.Resolve("").Tone)
}

func TestCatalog_LookupReturnsCopy(t *testing.T) {
	c := DefaultCatalog()

	b, ok := c.Lookup("mystery")
	require.True(t, ok)
	original := b.Cameras[0]
	b.Cameras[0] = "mutated"

	again, _ := c.Lookup("mystery")
	assert.Equal(t, original, again.Cameras[0])
}

func TestDefaultCatalog_PoolsSupportDistinctScenes(t *testing.T) {
	for _, b := range DefaultCatalog().Genres() {
		t.Run(b.Key, func(t *testing.T) {
			assert.GreaterOrEqual(t, len(b.Cameras), ScenesPerBeat)
			assert.GreaterOrEqual(t, len(b.Sounds), ScenesPerBeat)
			assert.GreaterOrEqual(t, len(b.Imagery), 3)
			assert.NotEmpty(t, b.Tone)
			assert.NotEmpty(t, b.Pace)
		})
	}
}

const minimalGenre = `
default: plain
genres:
  - key: plain
    name: Plain
    tone: calm
    pace: steady
    imagery: [open fields, quiet roads, low hills]
    inciting: [a letter arrived one morning]
    obstacle: [a bridge washed out overnight]
    turn: [the letter had been sent by a friend]
    climax: [crossed the river on foot]
    resolution: [the road home was open again at last]
    adjectives: [steady]
    cameras: [Pan, Tilt, Push]
    sounds: [Wind, Birds, Water]
    grade: neutral
    music: light piano
    transition: Use simple cuts.
`

func TestParseCatalog_Minimal(t *testing.T) {
	c, err := ParseCatalog([]byte(minimalGenre))
	require.NoError(t, err)

	b := c.Resolve("anything")
	assert.Equal(t, "plain", b.Key)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "invalid yaml", yaml: "genres: [unclosed"},
		{name: "no genres", yaml: "default: plain\ngenres: []\n"},
		{name: "missing default", yaml: replaceOnce(minimalGenre, "default: plain", "default: nope")},
		{name: "too few cameras", yaml: replaceOnce(minimalGenre, "cameras: [Pan, Tilt, Push]", "cameras: [Pan, Tilt]")},
		{name: "duplicate sound", yaml: replaceOnce(minimalGenre, "sounds: [Wind, Birds, Water]", "sounds: [Wind, Wind, Water]")},
		{name: "turn too short", yaml: replaceOnce(minimalGenre, "turn: [the letter had been sent by a friend]", "turn: [it changed]")},
		{name: "missing tone", yaml: replaceOnce(minimalGenre, "tone: calm", "tone: \"\"")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestNormalizeGenre(t *testing.T) {
	assert.Equal(t, "sci fi", NormalizeGenre("  SCI__fi "))
	assert.Equal(t, "", NormalizeGenre("   "))
}

func replaceOnce(s, old, new string) string {
	return strings.Replace(s, old, new, 1)
}
