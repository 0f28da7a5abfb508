package persona

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// UnknownKey is reported when a group has no members to classify.
const UnknownKey = "unknown"

// Archetype is one entry of the persona catalog.
type Archetype struct {
	Key         string        `yaml:"key"`
	Name        string        `yaml:"name"`
	Emoji       string        `yaml:"emoji"`
	Fingerprint Fingerprint   `yaml:"fingerprint"`
	Description string        `yaml:"description"`
	Traits      []string      `yaml:"traits"`
	Group       *GroupPhrases `yaml:"group,omitempty"`
}

// GroupPhrases is the collective wording of an archetype, used when the
// archetype describes a whole group.
type GroupPhrases struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Traits      []string `yaml:"traits"`
}

// Details is the display information for an archetype.
type Details struct {
	Name        string   `json:"name"`
	Emoji       string   `json:"emoji"`
	Description string   `json:"description"`
	Traits      []string `json:"traits"`
}

func unknownDetails() Details {
	return Details{
		Name:        "Unknown",
		Emoji:       "❓",
		Description: "Unknown persona type",
		Traits:      []string{},
	}
}

// Catalog is an ordered, read-only set of archetypes.
type Catalog struct {
	archetypes []Archetype
	index      map[string]int
}

type catalogFile struct {
	Personas []Archetype `yaml:"personas"`
}

var defaultCatalog = mustLoadCatalog(catalogYAML)

// Default returns the catalog shipped with the package.
func Default() *Catalog {
	return defaultCatalog
}

func mustLoadCatalog(data []byte) *Catalog {
	c, err := LoadCatalog(bytes.NewReader(data))
	if err != nil {
		panic(fmt.Sprintf("persona: embedded catalog: %v", err))
	}
	return c
}

// LoadCatalogFile reads a catalog from a YAML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// LoadCatalog decodes and validates a YAML catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return NewCatalog(file.Personas)
}

// NewCatalog builds a catalog from archetypes in tie-breaking order.
func NewCatalog(archetypes []Archetype) (*Catalog, error) {
	if len(archetypes) == 0 {
		return nil, errors.New("catalog has no personas")
	}
	c := &Catalog{
		archetypes: make([]Archetype, len(archetypes)),
		index:      make(map[string]int, len(archetypes)),
	}
	for i, a := range archetypes {
		if a.Key == "" {
			return nil, fmt.Errorf("persona %d: missing key", i)
		}
		if a.Key == UnknownKey {
			return nil, fmt.Errorf("persona %d: key %q is reserved", i, UnknownKey)
		}
		if _, dup := c.index[a.Key]; dup {
			return nil, fmt.Errorf("persona %q: duplicate key", a.Key)
		}
		for _, t := range Traits() {
			if t.index(a.Fingerprint.Value(t)) < 0 {
				return nil, fmt.Errorf("persona %q: %s %q not in %v",
					a.Key, t, a.Fingerprint.Value(t), t.Vocabulary())
			}
		}
		c.archetypes[i] = a
		c.index[a.Key] = i
	}
	return c, nil
}

// Len returns the number of archetypes.
func (c *Catalog) Len() int {
	return len(c.archetypes)
}

// Archetypes returns the archetypes in catalog order.
func (c *Catalog) Archetypes() []Archetype {
	return append([]Archetype(nil), c.archetypes...)
}

// Lookup returns the archetype for key.
func (c *Catalog) Lookup(key string) (Archetype, bool) {
	i, ok := c.index[key]
	if !ok {
		return Archetype{}, false
	}
	return c.archetypes[i], true
}

// Details returns the individual display details for key, or the unknown
// placeholder.
func (c *Catalog) Details(key string) Details {
	a, ok := c.Lookup(key)
	if !ok {
		return unknownDetails()
	}
	return Details{
		Name:        a.Name,
		Emoji:       a.Emoji,
		Description: a.Description,
		Traits:      cloneStrings(a.Traits),
	}
}

// GroupDetails returns the collective display details for key. Archetypes
// without group wording fall back to the individual description and traits.
func (c *Catalog) GroupDetails(key string) Details {
	d := c.Details(key)
	a, ok := c.Lookup(key)
	if !ok || a.Group == nil {
		return d
	}
	if a.Group.Name != "" {
		d.Name = a.Group.Name
	}
	d.Description = a.Group.Description
	d.Traits = cloneStrings(a.Group.Traits)
	return d
}

// GetPersonaDetails looks key up in the default catalog.
func GetPersonaDetails(key string) Details {
	return Default().Details(key)
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
