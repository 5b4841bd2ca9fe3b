// Package markdown holds the markdown-extension defaults applied to every
// techdocs build, the policy for layering user options on top of them, and a
// goldmark adapter that honours the subset of extensions goldmark implements.
package markdown

import (
	"maps"
	"sort"
)

// Extension names used by the default set.
const (
	ExtAdmonition     = "admonition"
	ExtTOC            = "toc"
	ExtCaret          = "pymdownx.caret"
	ExtCritic         = "pymdownx.critic"
	ExtDetails        = "pymdownx.details"
	ExtEmoji          = "pymdownx.emoji"
	ExtInlineHilite   = "pymdownx.inlinehilite"
	ExtMagicLink      = "pymdownx.magiclink"
	ExtMark           = "pymdownx.mark"
	ExtSmartSymbols   = "pymdownx.smartsymbols"
	ExtSuperFences    = "pymdownx.superfences"
	ExtHighlight      = "pymdownx.highlight"
	ExtExtra          = "pymdownx.extra"
	ExtBetterEm       = "pymdownx.betterem"
	ExtTabbed         = "pymdownx.tabbed"
	ExtTaskList       = "pymdownx.tasklist"
	ExtTilde          = "pymdownx.tilde"
	ExtInlineGraphviz = "markdown_inline_graphviz"
	ExtPlantUML       = "plantuml_markdown"
	ExtTrulySaneLists = "mdx_truly_sane_lists"
)

// Options maps an extension name to its option dictionary.
type Options map[string]map[string]any

// Clone returns a copy with every option dictionary copied as well.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	for name, opts := range o {
		cp := make(map[string]any, len(opts))
		maps.Copy(cp, opts)
		out[name] = cp
	}
	return out
}

// Names returns the extension names that carry options, sorted.
func (o Options) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultExtensions is appended to every build, in this order.
var defaultExtensions = []string{
	ExtAdmonition,
	ExtTOC,
	ExtCaret,
	ExtCritic,
	ExtDetails,
	ExtEmoji,
	ExtInlineHilite,
	ExtMagicLink,
	ExtMark,
	ExtSmartSymbols,
	ExtSuperFences,
	ExtHighlight,
	ExtExtra,
	ExtTabbed,
	ExtTaskList,
	ExtTilde,
	ExtInlineGraphviz,
	ExtPlantUML,
	ExtTrulySaneLists,
}

// DefaultExtensions returns the default extension list in application order.
func DefaultExtensions() []string {
	out := make([]string, len(defaultExtensions))
	copy(out, defaultExtensions)
	return out
}

// DefaultOptions returns a fresh copy of the default option dictionaries.
// betterem is configured without being listed; pymdownx.extra loads it.
func DefaultOptions() Options {
	return Options{
		ExtTOC:       {"permalink": true},
		ExtEmoji:     {"emoji_generator": ToSVG},
		ExtHighlight: {"linenums": true, "pygments_lang_class": true},
		ExtBetterEm:  {"smart_enable": "all"},
		ExtTabbed:    {"alternate_style": true},
		ExtTaskList:  {"custom_checkbox": true},
	}
}

// ApplyDefaults appends the default extensions to exts without deduplicating,
// and replaces the option dictionary of every defaulted extension in opts.
// opts must be non-nil.
func ApplyDefaults(exts []string, opts Options) []string {
	exts = append(exts, defaultExtensions...)
	for name, defaults := range DefaultOptions() {
		opts[name] = defaults
	}
	return exts
}

// MergeOverrides shallow-merges each override dictionary onto the existing
// entry of the same name in opts. Overrides for extensions that have no entry
// are dropped; their names are returned sorted.
func MergeOverrides(opts, overrides Options) (ignored []string) {
	for _, name := range overrides.Names() {
		target, ok := opts[name]
		if !ok {
			ignored = append(ignored, name)
			continue
		}
		maps.Copy(target, overrides[name])
	}
	return ignored
}
