// Package config models the host's build configuration and reads and writes
// it in mkdocs.yml form.
package config

import (
	"maps"

	"git.home.luguber.info/inful/techdocs-core/internal/markdown"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin"
	"git.home.luguber.info/inful/techdocs-core/internal/theme"
)

// Top-level keys with dedicated fields.
const (
	KeySiteName           = "site_name"
	KeySiteDescription    = "site_description"
	KeyTheme              = "theme"
	KeyPlugins            = "plugins"
	KeyMarkdownExtensions = "markdown_extensions"
	KeyMDXConfigs         = "mdx_configs"
)

// hostDefaultTheme is the theme the host uses when none is configured.
const hostDefaultTheme = "mkdocs"

// BuildConfig is the host's mutable build configuration.
type BuildConfig struct {
	SiteName        string
	SiteDescription string

	Theme   *theme.Theme
	Plugins *plugin.Registry

	// MarkdownExtensions is ordered and may contain duplicates.
	MarkdownExtensions []string
	ExtensionOptions   markdown.Options

	// Extra holds every other top-level key so it survives a round trip.
	Extra map[string]any
}

// New returns an empty configuration with the host's defaults.
func New() *BuildConfig {
	return &BuildConfig{
		Theme:            theme.New(hostDefaultTheme),
		Plugins:          plugin.NewRegistry(),
		ExtensionOptions: markdown.Options{},
		Extra:            map[string]any{},
	}
}

// Site returns the values exposed to templates as config.site_name and
// config.site_description.
func (c *BuildConfig) Site() map[string]any {
	return map[string]any{
		KeySiteName:        c.SiteName,
		KeySiteDescription: c.SiteDescription,
	}
}

// Map renders the configuration in resolved host form: extension options
// appear under mdx_configs rather than inline in markdown_extensions.
func (c *BuildConfig) Map() map[string]any {
	out := make(map[string]any, len(c.Extra)+6)
	maps.Copy(out, c.Extra)

	out[KeySiteName] = c.SiteName
	if c.SiteDescription != "" {
		out[KeySiteDescription] = c.SiteDescription
	}
	if c.Theme != nil {
		out[KeyTheme] = c.Theme.Map()
	}

	plugins := []map[string]any{}
	if c.Plugins != nil {
		for _, name := range c.Plugins.Names() {
			p, _ := c.Plugins.Get(name)
			plugins = append(plugins, map[string]any{name: p.Options()})
		}
	}
	out[KeyPlugins] = plugins

	exts := c.MarkdownExtensions
	if exts == nil {
		exts = []string{}
	}
	out[KeyMarkdownExtensions] = exts
	if len(c.ExtensionOptions) > 0 {
		out[KeyMDXConfigs] = c.ExtensionOptions
	}
	return out
}

// MarshalYAML implements yaml.Marshaler.
func (c *BuildConfig) MarshalYAML() (any, error) {
	return c.Map(), nil
}
