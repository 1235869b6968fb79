package story

import (
	"hash/fnv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxInputWords caps how much of each free-text input is woven into the
// prose. Longer inputs are clipped so the word-count band holds for any input.
const MaxInputWords = 12

// Beat labels in narrative order.
const (
	LabelSetup        = "Setup"
	LabelComplication = "Rising Complication"
	LabelTurn         = "Turning Point"
	LabelResolution   = "Resolution"
)

// beatTemplate is the sentence skeleton for one beat. Core sentences are
// always used; the color sentence is added only while the story is under
// TargetWords.
type beatTemplate struct {
	label string
	core  [3]string
	color string
}

var beatTemplates = [BeatCount]beatTemplate{
	{
		label: LabelSetup,
		core: [3]string{
			"{Protagonist} knew every corner of {setting}, down to its {image}.",
			"Life there was quiet until {inciting} changed everything.",
			"Beneath it all ran a current of {vibe} that {who} could not ignore.",
		},
		color: "Even the {image2} seemed to be waiting for something.",
	},
	{
		label: LabelComplication,
		core: [3]string{
			"{Who} followed the trail deeper, but {obstacle} stood in the way.",
			"Every {adj} step raised the stakes, and each answer bred two new questions.",
			"By nightfall, turning back was no longer a real choice.",
		},
		color: "Somewhere close, the {image3} seemed to whisper a warning nobody else could hear.",
	},
	{
		label: LabelTurn,
		core: [3]string{
			"Then came the turn: {turn}.",
			"The {feel} {who} had carried for days sharpened into resolve.",
			"{Who} {climax} while everything hung in the balance.",
		},
		color: "There was no script for this, only instinct and nerve.",
	},
	{
		label: LabelResolution,
		core: [3]string{
			"When it was over, {resolution}.",
			"{Who} stood in {where} once more, changed for good.",
			"The {image} looked the same, yet everything felt new.",
		},
		color: "Somewhere beneath the calm, the {feel} still hummed, quieter now but never gone.",
	},
}

// Narrative is the composer's output.
type Narrative struct {
	Story     string
	WordCount int
	Beats     []Beat
	Tone      string
	Pace      string
}

// voice holds the request inputs in the forms the templates use.
type voice struct {
	protagonist string
	setting     string
	vibe        string
	who         string
	where       string
	feel        string
}

func newVoice(req Request) voice {
	v := voice{
		protagonist: clipWords(req.Protagonist, MaxInputWords),
		setting:     clipWords(req.Setting, MaxInputWords),
		vibe:        clipWords(req.Vibe, MaxInputWords),
	}

	v.who = "they"
	if n := wordCount(v.protagonist); n > 0 && n <= 3 {
		v.who = v.protagonist
	}
	v.where = "that place"
	if n := wordCount(v.setting); n > 0 && n <= 5 {
		v.where = v.setting
	}
	v.feel = "feeling"
	if n := wordCount(v.vibe); n > 0 && n <= 3 {
		v.feel = v.vibe
	}
	if v.protagonist == "" {
		v.protagonist = v.who
	}
	return v
}

// Compose writes the narrative for req using bundle b. It is deterministic.
func Compose(req Request, b Bundle) Narrative {
	v := newVoice(req)
	seed := seedFor(b.Key, req)

	imageIdx := pickIndex(len(b.Imagery), seed, 0)
	r := strings.NewReplacer(
		"{Protagonist}", capitalize(v.protagonist),
		"{Who}", capitalize(v.who),
		"{who}", v.who,
		"{setting}", v.setting,
		"{where}", v.where,
		"{vibe}", v.vibe,
		"{feel}", v.feel,
		"{image}", b.Imagery[imageIdx],
		"{image2}", b.Imagery[(imageIdx+1)%len(b.Imagery)],
		"{image3}", b.Imagery[(imageIdx+2)%len(b.Imagery)],
		"{inciting}", pick(b.Inciting, seed, 1),
		"{obstacle}", pick(b.Obstacle, seed, 2),
		"{adj}", pick(b.Adjectives, seed, 3),
		"{turn}", pick(b.Turn, seed, 4),
		"{climax}", pick(b.Climax, seed, 5),
		"{resolution}", pick(b.Resolution, seed, 6),
	)

	lines := make([][]string, BeatCount)
	total := 0
	for i, tpl := range beatTemplates {
		for _, s := range tpl.core {
			line := r.Replace(s)
			lines[i] = append(lines[i], line)
			total += wordCount(line)
		}
	}

	for i, tpl := range beatTemplates {
		line := r.Replace(tpl.color)
		if n := wordCount(line); total+n <= TargetWords {
			lines[i] = append(lines[i], line)
			total += n
		}
	}

	beats := make([]Beat, BeatCount)
	paragraphs := make([]string, BeatCount)
	for i, tpl := range beatTemplates {
		beats[i] = Beat{
			Label:       tpl.label,
			Description: lines[i][0],
			lines:       lines[i],
		}
		paragraphs[i] = strings.Join(lines[i], " ")
	}

	text := strings.Join(paragraphs, "\n\n")
	return Narrative{
		Story:     text,
		WordCount: wordCount(text),
		Beats:     beats,
		Tone:      b.Tone,
		Pace:      b.Pace,
	}
}

func seedFor(genreKey string, req Request) uint64 {
	h := fnv.New64a()
	for _, part := range []string{genreKey, req.Setting, req.Protagonist, req.Vibe} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

const slotStride = 0x9E3779B97F4A7C15

func pickIndex(n int, seed uint64, slot int) int {
	if n <= 0 {
		return 0
	}
	return int((seed + uint64(slot)*slotStride) % uint64(n))
}

func pick(pool []string, seed uint64, slot int) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[pickIndex(len(pool), seed, slot)]
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func clipWords(s string, max int) string {
	fields := strings.Fields(s)
	if len(fields) > max {
		fields = fields[:max]
	}
	return strings.Join(fields, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
