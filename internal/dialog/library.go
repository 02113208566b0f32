package dialog

import (
	_ "embed"
	"os"
	"strings"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

//go:embed dialogs.yaml
var defaultScripts []byte

// Page is a run of lines spoken by one speaker.
type Page struct {
	Speaker string   `json:"speaker" yaml:"speaker" jsonschema:"required,minLength=1,description=Name shown above the text"`
	Lines   []string `json:"lines" yaml:"lines" jsonschema:"required,minItems=1"`
	Avatar  string   `json:"avatar,omitempty" yaml:"avatar,omitempty" jsonschema:"description=Portrait image path"`
}

// File is the on-disk layout of a dialog script file. JSON files are
// accepted as well since they are valid YAML.
type File struct {
	Scripts map[string][]Page `json:"scripts" yaml:"scripts" jsonschema:"required,description=Scripts keyed by NPC name or type"`
}

// Library maps NPC names and types to scripts.
type Library struct {
	scripts map[string][]Page
}

// NewLibrary creates a library from a script map.
func NewLibrary(scripts map[string][]Page) *Library {
	l := &Library{scripts: make(map[string][]Page, len(scripts))}
	for id, pages := range scripts {
		l.scripts[id] = pages
	}
	return l
}

// ParseLibrary validates and decodes script file data.
func ParseLibrary(data []byte) (*Library, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, oops.Code("DIALOG_SCHEMA_INVALID").Wrap(err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, oops.Code("DIALOG_PARSE_FAILED").Wrap(err)
	}
	return NewLibrary(f.Scripts), nil
}

// LoadLibrary reads and parses a script file.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code("DIALOG_READ_FAILED").With("path", path).Wrap(err)
	}
	lib, err := ParseLibrary(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return lib, nil
}

// DefaultLibrary returns the built-in scripts.
func DefaultLibrary() *Library {
	lib, err := ParseLibrary(defaultScripts)
	if err != nil {
		panic(err)
	}
	return lib
}

// Merge adds other's scripts, replacing entries with the same id.
func (l *Library) Merge(other *Library) {
	if other == nil {
		return
	}
	for id, pages := range other.scripts {
		l.scripts[id] = pages
	}
}

// Lookup finds a script by exact id, then by its lower-cased form.
func (l *Library) Lookup(id string) ([]Page, bool) {
	if id == "" {
		return nil, false
	}
	if pages, ok := l.scripts[id]; ok {
		return pages, true
	}
	pages, ok := l.scripts[strings.ToLower(id)]
	return pages, ok
}

// Resolve tries each id in order and flattens the first script found.
func (l *Library) Resolve(ids ...string) ([]Frame, bool) {
	for _, id := range ids {
		if pages, ok := l.Lookup(id); ok {
			return Flatten(pages), true
		}
	}
	return nil, false
}

// Len returns the number of scripts held.
func (l *Library) Len() int {
	return len(l.scripts)
}

// Flatten turns pages into one frame per line.
func Flatten(pages []Page) []Frame {
	var frames []Frame
	for _, p := range pages {
		for _, line := range p.Lines {
			frames = append(frames, Frame{Speaker: p.Speaker, Text: line, Avatar: p.Avatar})
		}
	}
	return frames
}

// Lines builds frames for a single speaker.
func Lines(speaker string, lines ...string) []Frame {
	return Flatten([]Page{{Speaker: speaker, Lines: lines}})
}
