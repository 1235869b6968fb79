package story

import "sync/atomic"

// Generator runs the full synthesis against one catalog. The catalog can be
// swapped while requests are in flight; each call sees a single catalog.
type Generator struct {
	catalog atomic.Pointer[Catalog]
}

// NewGenerator returns a Generator backed by c. A nil catalog selects the
// embedded default.
func NewGenerator(c *Catalog) *Generator {
	if c == nil {
		c = DefaultCatalog()
	}
	g := &Generator{}
	g.catalog.Store(c)
	return g
}

var defaultGenerator = NewGenerator(nil)

// Generate runs the synthesis with the embedded catalog.
func Generate(req Request) Result {
	return defaultGenerator.Generate(req)
}

// Generate composes the narrative, maps it onto the scene timeline and
// derives the production notes. It never fails.
func (g *Generator) Generate(req Request) Result {
	res, _ := g.GenerateWithInfo(req)
	return res
}

// GenerateWithInfo is Generate plus how the genre was resolved.
func (g *Generator) GenerateWithInfo(req Request) (Result, Info) {
	bundle, fallback := g.catalog.Load().resolve(req.Genre)

	narrative := Compose(req, bundle)
	scenes := BuildTimeline(narrative, req, bundle)
	notes := ComposeNotes(scenes, bundle)

	res := Result{
		Story:     narrative.Story,
		WordCount: narrative.WordCount,
		Beats:     narrative.Beats,
		Tone:      narrative.Tone,
		Pace:      narrative.Pace,
		CapCut: CapCutPlan{
			Scenes:          scenes,
			VoiceOverScript: notes.VoiceOverScript,
			EditingNotes:    notes.EditingNotes,
			MusicDirection:  notes.MusicDirection,
			ExportTips:      notes.ExportTips,
		},
	}
	return res, Info{Genre: bundle.Key, Fallback: fallback}
}

// Catalog returns the catalog the generator resolves genres against.
func (g *Generator) Catalog() *Catalog {
	return g.catalog.Load()
}

// SetCatalog replaces the catalog used by later calls. nil is ignored.
func (g *Generator) SetCatalog(c *Catalog) {
	if c != nil {
		g.catalog.Store(c)
	}
}
