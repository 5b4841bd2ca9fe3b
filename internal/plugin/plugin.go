// Package plugin defines the capability the composer uses to configure and
// register documentation-site plugins, an insertion-ordered registry that
// mirrors the host's plugin collection, and a catalog of constructors.
package plugin

import (
	"maps"
)

// Plugin is an opaque host plugin. The composer only ever constructs a plugin,
// configures it and registers the configured instance.
type Plugin interface {
	// Name returns the plugin's registry key (e.g. "search", "kroki").
	Name() string

	// Configure validates options, applies defaults, and returns the
	// configured plugin. The receiver is left untouched.
	Configure(options map[string]any) (Plugin, error)

	// Options returns the effective configuration as loaded by Configure.
	Options() map[string]any
}

// Opaque is a plugin the composer does not know anything about. It carries
// whatever options the host supplied so the configuration round-trips.
type Opaque struct {
	name    string
	options map[string]any
}

// NewOpaque creates an unconfigured opaque plugin.
func NewOpaque(name string) *Opaque {
	return &Opaque{name: name, options: map[string]any{}}
}

// Name implements Plugin.
func (o *Opaque) Name() string { return o.name }

// Configure implements Plugin; any options are accepted verbatim.
func (o *Opaque) Configure(options map[string]any) (Plugin, error) {
	cp := make(map[string]any, len(options))
	maps.Copy(cp, options)
	return &Opaque{name: o.name, options: cp}, nil
}

// Options implements Plugin.
func (o *Opaque) Options() map[string]any {
	cp := make(map[string]any, len(o.options))
	maps.Copy(cp, o.options)
	return cp
}
