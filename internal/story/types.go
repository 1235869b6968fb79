// Package story composes a short prose narrative from four free-text inputs and
// derives a fixed 60-second, 12-scene edit plan whose cues follow the
// narrative's beats. Everything in this package is deterministic and free of
// I/O: identical requests produce identical results.
package story

const (
	// TimelineSeconds is the total length of the edit plan.
	TimelineSeconds = 60
	// SceneCount is the fixed number of scenes in the edit plan.
	SceneCount = 12
	// BeatCount is the fixed number of narrative beats.
	BeatCount = 4
	// ScenesPerBeat is how many contiguous scenes each beat owns.
	ScenesPerBeat = SceneCount / BeatCount

	// TargetWords is the soft ceiling the composer fills optional sentences up to.
	TargetWords = 175
	// MinWords and MaxWords bound the accepted narrative length.
	MinWords = 120
	MaxWords = 220
)

// Request holds the four inputs. Genre is matched case-insensitively; the
// other fields are used as given.
type Request struct {
	Genre       string `json:"genre"`
	Setting     string `json:"setting"`
	Protagonist string `json:"protagonist"`
	Vibe        string `json:"vibe"`
}

// Beat is one structural unit of the narrative.
type Beat struct {
	Label       string `json:"label"`
	Description string `json:"description"`

	// lines are the narrative sentences the beat covers, in order.
	lines []string
}

// Lines returns a copy of the narrative sentences covered by the beat.
func (b Beat) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Scene is a fixed-duration slice of the edit timeline.
type Scene struct {
	Index           int    `json:"index"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationSeconds int    `json:"durationSeconds"`
	VisualDirection string `json:"visualDirection"`
	CameraMovement  string `json:"cameraMovement"`
	VoiceOver       string `json:"voiceOver"`
	TextOverlay     string `json:"textOverlay"`
	SoundDesign     string `json:"soundDesign"`
}

// CapCutPlan is the scene timeline plus the production text that goes with it.
type CapCutPlan struct {
	Scenes          []Scene  `json:"scenes"`
	VoiceOverScript string   `json:"voiceOverScript"`
	EditingNotes    []string `json:"editingNotes"`
	MusicDirection  string   `json:"musicDirection"`
	ExportTips      []string `json:"exportTips"`
}

// Result is the full output of one synthesis call.
type Result struct {
	Story     string     `json:"story"`
	WordCount int        `json:"wordCount"`
	Beats     []Beat     `json:"beats"`
	Tone      string     `json:"tone"`
	Pace      string     `json:"pace"`
	CapCut    CapCutPlan `json:"capcut"`
}

// Info describes how a request was resolved.
type Info struct {
	Genre    string
	Fallback bool
}
