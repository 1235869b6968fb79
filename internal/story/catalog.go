package story

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultGenre is the bundle used when a genre does not match the catalog.
const DefaultGenre = "adventure"

//go:embed catalog.yaml
var embeddedCatalog []byte

var defaultCatalog = mustLoadCatalog()

// Bundle is the per-genre resource table the composer and mapper draw from.
type Bundle struct {
	Key        string   `yaml:"key" json:"key"`
	Name       string   `yaml:"name" json:"name"`
	Aliases    []string `yaml:"aliases" json:"aliases"`
	Tone       string   `yaml:"tone" json:"tone"`
	Pace       string   `yaml:"pace" json:"pace"`
	Imagery    []string `yaml:"imagery" json:"-"`
	Inciting   []string `yaml:"inciting" json:"-"`
	Obstacle   []string `yaml:"obstacle" json:"-"`
	Turn       []string `yaml:"turn" json:"-"`
	Climax     []string `yaml:"climax" json:"-"`
	Resolution []string `yaml:"resolution" json:"-"`
	Adjectives []string `yaml:"adjectives" json:"-"`
	Cameras    []string `yaml:"cameras" json:"-"`
	Sounds     []string `yaml:"sounds" json:"-"`
	Grade      string   `yaml:"grade" json:"-"`
	Music      string   `yaml:"music" json:"-"`
	Transition string   `yaml:"transition" json:"-"`
}

func (b Bundle) clone() Bundle {
	b.Aliases = slices.Clone(b.Aliases)
	b.Imagery = slices.Clone(b.Imagery)
	b.Inciting = slices.Clone(b.Inciting)
	b.Obstacle = slices.Clone(b.Obstacle)
	b.Turn = slices.Clone(b.Turn)
	b.Climax = slices.Clone(b.Climax)
	b.Resolution = slices.Clone(b.Resolution)
	b.Adjectives = slices.Clone(b.Adjectives)
	b.Cameras = slices.Clone(b.Cameras)
	b.Sounds = slices.Clone(b.Sounds)
	return b
}

type catalogFile struct {
	Default string   `yaml:"default"`
	Genres  []Bundle `yaml:"genres"`
}

// Catalog is an immutable genre lookup table. It is safe for concurrent use.
type Catalog struct {
	bundles    map[string]Bundle
	aliases    map[string]string
	keys       []string
	defaultKey string
}

// poolRule bounds the size and phrase length of one pool so the composed
// narrative stays inside the word-count band and scene cues stay distinct.
type poolRule struct {
	name     string
	pool     func(*Bundle) []string
	minLen   int
	minWords int
	maxWords int
	distinct bool
}

var poolRules = []poolRule{
	{name: "imagery", pool: func(b *Bundle) []string { return b.Imagery }, minLen: 3, minWords: 2, maxWords: 4, distinct: true},
	{name: "inciting", pool: func(b *Bundle) []string { return b.Inciting }, minLen: 1, minWords: 4, maxWords: 8},
	{name: "obstacle", pool: func(b *Bundle) []string { return b.Obstacle }, minLen: 1, minWords: 4, maxWords: 8},
	{name: "turn", pool: func(b *Bundle) []string { return b.Turn }, minLen: 1, minWords: 6, maxWords: 12},
	{name: "climax", pool: func(b *Bundle) []string { return b.Climax }, minLen: 1, minWords: 4, maxWords: 10},
	{name: "resolution", pool: func(b *Bundle) []string { return b.Resolution }, minLen: 1, minWords: 6, maxWords: 12},
	{name: "adjectives", pool: func(b *Bundle) []string { return b.Adjectives }, minLen: 1, minWords: 1, maxWords: 2},
	{name: "cameras", pool: func(b *Bundle) []string { return b.Cameras }, minLen: ScenesPerBeat, distinct: true},
	{name: "sounds", pool: func(b *Bundle) []string { return b.Sounds }, minLen: ScenesPerBeat, distinct: true},
}

// DefaultCatalog returns the process-wide embedded catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func mustLoadCatalog() *Catalog {
	c, err := ParseCatalog(embeddedCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog parses and validates a YAML genre catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Genres) == 0 {
		return nil, fmt.Errorf("catalog defines no genres")
	}

	c := &Catalog{
		bundles:    make(map[string]Bundle, len(file.Genres)),
		aliases:    make(map[string]string),
		defaultKey: NormalizeGenre(file.Default),
	}

	for i := range file.Genres {
		b := file.Genres[i]
		b.Key = NormalizeGenre(b.Key)
		if b.Key == "" {
			return nil, fmt.Errorf("genre %d: key is required", i)
		}
		if err := validateBundle(&b); err != nil {
			return nil, fmt.Errorf("genre %s: %w", b.Key, err)
		}
		if _, exists := c.bundles[b.Key]; exists {
			return nil, fmt.Errorf("genre %s: duplicate key", b.Key)
		}
		c.bundles[b.Key] = b
		c.keys = append(c.keys, b.Key)
	}

	for _, b := range c.bundles {
		for _, alias := range b.Aliases {
			a := NormalizeGenre(alias)
			if a == "" {
				return nil, fmt.Errorf("genre %s: blank alias", b.Key)
			}
			if _, clash := c.bundles[a]; clash {
				return nil, fmt.Errorf("genre %s: alias %q shadows a genre key", b.Key, alias)
			}
			if owner, clash := c.aliases[a]; clash {
				return nil, fmt.Errorf("genre %s: alias %q already belongs to %s", b.Key, alias, owner)
			}
			c.aliases[a] = b.Key
		}
	}

	if c.defaultKey == "" {
		c.defaultKey = DefaultGenre
	}
	if _, ok := c.bundles[c.defaultKey]; !ok {
		return nil, fmt.Errorf("default genre %q is not defined", c.defaultKey)
	}

	sort.Strings(c.keys)
	return c, nil
}

func validateBundle(b *Bundle) error {
	for field, v := range map[string]string{
		"name": b.Name, "tone": b.Tone, "pace": b.Pace,
		"grade": b.Grade, "music": b.Music, "transition": b.Transition,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", field)
		}
	}

	for _, rule := range poolRules {
		pool := rule.pool(b)
		if len(pool) < rule.minLen {
			return fmt.Errorf("%s needs at least %d entries, has %d", rule.name, rule.minLen, len(pool))
		}
		seen := make(map[string]bool, len(pool))
		for _, entry := range pool {
			n := wordCount(entry)
			if n == 0 {
				return fmt.Errorf("%s has a blank entry", rule.name)
			}
			if rule.maxWords > 0 && (n < rule.minWords || n > rule.maxWords) {
				return fmt.Errorf("%s entry %q has %d words, want %d-%d", rule.name, entry, n, rule.minWords, rule.maxWords)
			}
			if rule.distinct && seen[entry] {
				return fmt.Errorf("%s entry %q is duplicated", rule.name, entry)
			}
			seen[entry] = true
		}
	}
	return nil
}

// NormalizeGenre lowercases a genre string and collapses separators so that
// "Sci_Fi", " sci  fi " and "sci fi" compare equal.
func NormalizeGenre(genre string) string {
	g := strings.ToLower(genre)
	g = strings.ReplaceAll(g, "_", " ")
	return strings.Join(strings.Fields(g), " ")
}

// Lookup returns the bundle for a genre key or alias.
func (c *Catalog) Lookup(genre string) (Bundle, bool) {
	g := NormalizeGenre(genre)
	if b, ok := c.bundles[g]; ok {
		return b.clone(), true
	}
	if key, ok := c.aliases[g]; ok {
		return c.bundles[key].clone(), true
	}
	return Bundle{}, false
}

// Resolve returns the bundle for genre, or the default bundle when the genre
// is unknown. It never fails.
func (c *Catalog) Resolve(genre string) Bundle {
	b, _ := c.resolve(genre)
	return b
}

func (c *Catalog) resolve(genre string) (Bundle, bool) {
	if b, ok := c.Lookup(genre); ok {
		return b, false
	}
	return c.Default(), true
}

// Default returns the fallback bundle.
func (c *Catalog) Default() Bundle {
	return c.bundles[c.defaultKey].clone()
}

// Genres returns every bundle ordered by key.
func (c *Catalog) Genres() []Bundle {
	out := make([]Bundle, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.bundles[k].clone())
	}
	return out
}
