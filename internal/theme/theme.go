// Package theme models the host's theme object: a name, the ordered list of
// template search directories, and the set of templates copied verbatim.
package theme

import (
	"maps"
	"slices"

	"git.home.luguber.info/inful/techdocs-core/internal/util/sets"
)

// DefaultName is the theme every techdocs build is forced onto.
const DefaultName = "material"

// builtinStaticTemplates are rendered by every theme without markdown processing.
var builtinStaticTemplates = []string{"404.html", "sitemap.xml"}

// Theme is the host's theme record.
type Theme struct {
	Name string

	// Dirs is the template search path, highest priority first.
	Dirs []string

	// StaticTemplates are templates rendered as-is and copied to the site root.
	StaticTemplates sets.Set[string]

	// Settings holds every other theme key (custom_dir, palette, features, ...).
	Settings map[string]any
}

// New returns a fresh theme with no user settings.
func New(name string) *Theme {
	return &Theme{
		Name:            name,
		StaticTemplates: sets.New(builtinStaticTemplates...),
		Settings:        map[string]any{},
	}
}

// FromSettings builds a theme from a host theme block. A custom_dir setting is
// put at the head of the search path.
func FromSettings(name string, settings map[string]any) *Theme {
	t := New(name)
	maps.Copy(t.Settings, settings)
	delete(t.Settings, "name")
	if dir, ok := t.Settings["custom_dir"].(string); ok && dir != "" {
		t.AddDir(dir)
	}
	if dirs, ok := t.Settings["dirs"].([]any); ok {
		for _, v := range dirs {
			if s, ok := v.(string); ok {
				t.AddDir(s)
			}
		}
		delete(t.Settings, "dirs")
	}
	if extra, ok := t.Settings["static_templates"].([]any); ok {
		for _, v := range extra {
			if s, ok := v.(string); ok {
				t.StaticTemplates.Add(s)
			}
		}
		delete(t.Settings, "static_templates")
	}
	return t
}

// IsDefault reports whether t is the default theme.
func (t *Theme) IsDefault() bool {
	return t != nil && t.Name == DefaultName
}

// AddStaticTemplate registers a template the theme copies verbatim.
func (t *Theme) AddStaticTemplate(name string) {
	if t.StaticTemplates == nil {
		t.StaticTemplates = sets.New[string]()
	}
	t.StaticTemplates.Add(name)
}

// AddDir appends a directory to the template search path unless present.
func (t *Theme) AddDir(dir string) {
	if !slices.Contains(t.Dirs, dir) {
		t.Dirs = append(t.Dirs, dir)
	}
}

// Map renders the theme in the host's configuration shape.
func (t *Theme) Map() map[string]any {
	out := make(map[string]any, len(t.Settings)+3)
	maps.Copy(out, t.Settings)
	out["name"] = t.Name
	out["static_templates"] = sets.Sorted(t.StaticTemplates)
	if len(t.Dirs) > 0 {
		out["dirs"] = slices.Clone(t.Dirs)
	}
	return out
}
