package config

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/techdocs-core/internal/foundation/errors"
	"git.home.luguber.info/inful/techdocs-core/internal/markdown"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin"
	"git.home.luguber.info/inful/techdocs-core/internal/theme"
)

const (
	envTag        = "!ENV"
	pythonNameTag = "!!python/name:"
	longTagPrefix = "tag:yaml.org,2002:"
)

// PythonName is a !!python/name reference kept verbatim (e.g. an emoji
// generator named in mkdocs.yml).
type PythonName string

// MarshalYAML implements yaml.Marshaler.
func (p PythonName) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: pythonNameTag + string(p), Value: ""}, nil
}

// Load reads and parses the configuration file at path. !ENV tags resolve
// against env.
func Load(path string, env Env) (*BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.NewError(ferrors.CategoryNotFound, "configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}
	return Parse(data, env)
}

// Parse parses mkdocs.yml content.
func Parse(data []byte, env Env) (*BuildConfig, error) {
	cfg := New()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid YAML").Build()
	}
	if len(doc.Content) == 0 {
		return cfg, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ferrors.ConfigError("configuration must be a mapping").Build()
	}

	p := &parser{env: env}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		var err error
		switch key {
		case KeySiteName:
			cfg.SiteName, err = p.stringValue(val)
		case KeySiteDescription:
			cfg.SiteDescription, err = p.stringValue(val)
		case KeyTheme:
			cfg.Theme, err = p.theme(val)
		case KeyPlugins:
			err = p.plugins(val, cfg.Plugins)
		case KeyMarkdownExtensions:
			cfg.MarkdownExtensions, err = p.extensions(val, cfg.ExtensionOptions)
		case KeyMDXConfigs:
			err = p.mdxConfigs(val, cfg.ExtensionOptions)
		default:
			cfg.Extra[key], err = p.value(val)
		}
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").
				WithContext("key", key).
				WithContext("line", val.Line).
				Build()
		}
	}
	return cfg, nil
}

// Encode writes cfg as YAML.
func Encode(w io.Writer, cfg *BuildConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Map()); err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	return enc.Close()
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *BuildConfig) error {
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write configuration").
			WithContext("path", path).
			Build()
	}
	return nil
}

type parser struct {
	env Env
}

func (p *parser) stringValue(n *yaml.Node) (string, error) {
	v, err := p.value(n)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return fmt.Sprint(s), nil
	}
}

func (p *parser) theme(n *yaml.Node) (*theme.Theme, error) {
	v, err := p.value(n)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return theme.New(hostDefaultTheme), nil
	case string:
		return theme.New(t), nil
	case map[string]any:
		name, _ := t["name"].(string)
		return theme.FromSettings(name, t), nil
	default:
		return nil, fmt.Errorf("theme must be a name or a mapping, got %T", v)
	}
}

// plugins accepts both the list form and the mapping form. Host plugins are
// kept opaque: compose only replaces entries, it never reads them.
func (p *parser) plugins(n *yaml.Node, reg *plugin.Registry) error {
	return p.namedEntries(n, "plugin", func(name string, opts map[string]any) error {
		configured, err := plugin.NewOpaque(name).Configure(opts)
		if err != nil {
			return err
		}
		reg.Set(name, configured)
		return nil
	})
}

func (p *parser) extensions(n *yaml.Node, opts markdown.Options) ([]string, error) {
	exts := []string{}
	err := p.namedEntries(n, "markdown extension", func(name string, o map[string]any) error {
		exts = append(exts, name)
		if len(o) == 0 {
			return nil
		}
		if opts[name] == nil {
			opts[name] = map[string]any{}
		}
		maps.Copy(opts[name], o)
		return nil
	})
	return exts, err
}

// mdxConfigs reads extension options in resolved form, as Encode writes them.
func (p *parser) mdxConfigs(n *yaml.Node, opts markdown.Options) error {
	if n.Kind != yaml.MappingNode && n.Tag != "!!null" {
		return fmt.Errorf("%s must be a mapping", KeyMDXConfigs)
	}
	return p.namedEntries(n, "markdown extension", func(name string, o map[string]any) error {
		if len(o) == 0 {
			return nil
		}
		if opts[name] == nil {
			opts[name] = map[string]any{}
		}
		maps.Copy(opts[name], o)
		return nil
	})
}

// namedEntries walks a list of names / single-key mappings, or a mapping of
// name to options, calling fn in document order.
func (p *parser) namedEntries(n *yaml.Node, kind string, fn func(name string, opts map[string]any) error) error {
	switch n.Kind {
	case yaml.SequenceNode:
		for _, item := range n.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				name, err := p.stringValue(item)
				if err != nil {
					return err
				}
				if err := fn(name, nil); err != nil {
					return err
				}
			case yaml.MappingNode:
				if len(item.Content) != 2 {
					return fmt.Errorf("invalid %s entry at line %d: expected a single key", kind, item.Line)
				}
				if err := p.namedEntry(item.Content[0], item.Content[1], kind, fn); err != nil {
					return err
				}
			default:
				return fmt.Errorf("invalid %s entry at line %d", kind, item.Line)
			}
		}
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if err := p.namedEntry(n.Content[i], n.Content[i+1], kind, fn); err != nil {
				return err
			}
		}
		return nil
	default:
		if n.Tag == "!!null" {
			return nil
		}
		return fmt.Errorf("%ss must be a list or a mapping", kind)
	}
}

func (p *parser) namedEntry(k, v *yaml.Node, kind string, fn func(string, map[string]any) error) error {
	val, err := p.value(v)
	if err != nil {
		return err
	}
	switch o := val.(type) {
	case nil:
		return fn(k.Value, nil)
	case map[string]any:
		return fn(k.Value, o)
	default:
		return fmt.Errorf("invalid config options for %s %q: expected a mapping, got %T", kind, k.Value, val)
	}
}

// value converts a node to plain Go values, resolving !ENV and keeping
// python/name references.
func (p *parser) value(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return p.value(n.Alias)
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return p.value(n.Content[0])
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := p.value(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[n.Content[i].Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		if n.Tag == envTag {
			return p.envValue(n.Content)
		}
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := p.value(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	switch {
	case n.Tag == envTag:
		return p.envValue([]*yaml.Node{n})
	case strings.HasPrefix(n.Tag, pythonNameTag):
		return PythonName(strings.TrimPrefix(n.Tag, pythonNameTag)), nil
	case strings.HasPrefix(n.Tag, longTagPrefix+"python/name:"):
		return PythonName(strings.TrimPrefix(n.Tag, longTagPrefix+"python/name:")), nil
	case n.Tag == "" || strings.HasPrefix(n.Tag, "!!"):
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		// Unknown local tags keep their literal value.
		return n.Value, nil
	}
}

// envValue resolves an !ENV scalar or sequence: the first variable that is
// set wins; with more than one item the last one is the default.
func (p *parser) envValue(items []*yaml.Node) (any, error) {
	for _, item := range items {
		if v, ok := lookup(p.env, item.Value); ok {
			return resolveScalar(v)
		}
	}
	if len(items) > 1 {
		last := *items[len(items)-1]
		last.Tag = ""
		return p.value(&last)
	}
	return nil, nil
}

func lookup(env Env, key string) (string, bool) {
	if env == nil || key == "" {
		return "", false
	}
	return env.Lookup(key)
}

func resolveScalar(s string) (any, error) {
	var v any
	n := yaml.Node{Kind: yaml.ScalarNode, Value: s}
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
