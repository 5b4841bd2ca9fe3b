// Package monorepo provides the multi-docs aggregation plugin. It has no
// options of its own; nested docs roots are declared in the navigation.
package monorepo

import (
	"fmt"
	"sort"

	"git.home.luguber.info/inful/techdocs-core/internal/plugin"
)

// Name is the registry key of the monorepo plugin.
const Name = "monorepo"

// Plugin is the monorepo aggregation plugin.
type Plugin struct{}

// New returns a monorepo plugin.
func New() *Plugin { return &Plugin{} }

// Name implements plugin.Plugin.
func (*Plugin) Name() string { return Name }

// Configure implements plugin.Plugin. Any option is an error.
func (*Plugin) Configure(options map[string]any) (plugin.Plugin, error) {
	if len(options) > 0 {
		keys := make([]string, 0, len(options))
		for k := range options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("monorepo plugin takes no options, got %v", keys)
	}
	return &Plugin{}, nil
}

// Options implements plugin.Plugin.
func (*Plugin) Options() map[string]any { return map[string]any{} }

func init() { plugin.MustRegister(Name, func() plugin.Plugin { return New() }) }
