// Package search provides the full-text search plugin configuration.
package search

import (
	"fmt"
	"maps"

	"git.home.luguber.info/inful/techdocs-core/internal/foundation"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin"
)

// Name is the registry key of the search plugin.
const Name = "search"

// Indexing strategies understood by the search plugin.
const (
	IndexingFull     = "full"
	IndexingSections = "sections"
	IndexingTitles   = "titles"
)

var indexing = foundation.NewNormalizer(map[string]string{
	IndexingFull:     IndexingFull,
	IndexingSections: IndexingSections,
	IndexingTitles:   IndexingTitles,
}, IndexingFull)

// Config is the search plugin's option set.
type Config struct {
	Lang            []string `yaml:"lang"`
	Separator       string   `yaml:"separator"`
	MinSearchLength int      `yaml:"min_search_length"`
	PrebuildIndex   bool     `yaml:"prebuild_index"`
	Indexing        string   `yaml:"indexing"`
}

// DefaultConfig returns the plugin's own defaults.
func DefaultConfig() Config {
	return Config{
		Lang:            []string{"en"},
		Separator:       `[\s\-]+`,
		MinSearchLength: 3,
		PrebuildIndex:   false,
		Indexing:        IndexingFull,
	}
}

// Plugin is the search plugin.
type Plugin struct {
	cfg  Config
	opts map[string]any
}

// New returns an unconfigured search plugin carrying defaults.
func New() *Plugin { return &Plugin{cfg: DefaultConfig()} }

// Name implements plugin.Plugin.
func (*Plugin) Name() string { return Name }

// Config returns the typed configuration.
func (p *Plugin) Config() Config { return p.cfg }

// Configure implements plugin.Plugin.
func (p *Plugin) Configure(options map[string]any) (plugin.Plugin, error) {
	cfg := DefaultConfig()
	if err := plugin.DecodeOptions(options, &cfg); err != nil {
		return nil, err
	}
	strategy, err := indexing.NormalizeWithError(cfg.Indexing)
	if err != nil {
		return nil, fmt.Errorf("indexing: %w", err)
	}
	cfg.Indexing = strategy
	if cfg.MinSearchLength < 1 {
		return nil, fmt.Errorf("min_search_length must be positive, got %d", cfg.MinSearchLength)
	}
	opts, err := plugin.EncodeOptions(cfg)
	if err != nil {
		return nil, err
	}
	return &Plugin{cfg: cfg, opts: opts}, nil
}

// Options implements plugin.Plugin. It is nil until the plugin is configured.
func (p *Plugin) Options() map[string]any { return maps.Clone(p.opts) }

func init() { plugin.MustRegister(Name, func() plugin.Plugin { return New() }) }
