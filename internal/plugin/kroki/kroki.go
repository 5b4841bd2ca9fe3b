// Package kroki provides the diagram-rendering plugin configuration. Diagrams
// in fenced blocks are rendered through a Kroki server.
package kroki

import (
	"fmt"
	"maps"

	"git.home.luguber.info/inful/techdocs-core/internal/foundation"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin"
)

var httpMethods = foundation.NewNormalizer(map[string]string{"GET": "GET", "POST": "POST"}, "GET")

// Name is the registry key of the kroki plugin.
const Name = "kroki"

// DefaultServerURL is the public Kroki service.
const DefaultServerURL = "https://kroki.io"

// Config mirrors the kroki plugin's option names, which are CamelCase on the wire.
type Config struct {
	ServerURL         string            `yaml:"ServerURL"`
	DownloadImages    bool              `yaml:"DownloadImages"`
	DownloadDir       string            `yaml:"DownloadDir"`
	HTTPMethod        string            `yaml:"HttpMethod"`
	UserAgent         string            `yaml:"UserAgent"`
	FencePrefix       string            `yaml:"FencePrefix"`
	EnableBlockDiag   bool              `yaml:"EnableBlockDiag"`
	EnableBpmn        bool              `yaml:"Enablebpmn"`
	EnableExcalidraw  bool              `yaml:"EnableExcalidraw"`
	EnableMermaid     bool              `yaml:"EnableMermaid"`
	EnableDiagramsnet bool              `yaml:"EnableDiagramsnet"`
	FileTypes         []string          `yaml:"FileTypes"`
	FileTypeOverrides map[string]string `yaml:"FileTypeOverrides"`
	FailFast          bool              `yaml:"FailFast"`
}

// DefaultConfig returns the plugin's own defaults.
func DefaultConfig() Config {
	return Config{
		ServerURL:         DefaultServerURL,
		DownloadImages:    false,
		DownloadDir:       "images/kroki_generated",
		HTTPMethod:        "GET",
		UserAgent:         "techdocs-core",
		FencePrefix:       "kroki-",
		EnableBlockDiag:   true,
		EnableBpmn:        true,
		EnableExcalidraw:  true,
		EnableMermaid:     true,
		EnableDiagramsnet: false,
		FileTypes:         []string{"svg"},
		FileTypeOverrides: map[string]string{},
	}
}

// Plugin is the kroki plugin.
type Plugin struct {
	cfg  Config
	opts map[string]any
}

// New returns an unconfigured kroki plugin carrying defaults.
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
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	opts, err := plugin.EncodeOptions(cfg)
	if err != nil {
		return nil, err
	}
	return &Plugin{cfg: cfg, opts: opts}, nil
}

// Options implements plugin.Plugin. It is nil until the plugin is configured.
func (p *Plugin) Options() map[string]any { return maps.Clone(p.opts) }

func validate(cfg *Config) error {
	method, err := httpMethods.NormalizeWithError(cfg.HTTPMethod)
	if err != nil {
		return fmt.Errorf("HttpMethod: %w", err)
	}
	cfg.HTTPMethod = method
	if len(cfg.FileTypes) == 0 {
		return fmt.Errorf("FileTypes must not be empty")
	}
	return nil
}

func init() { plugin.MustRegister(Name, func() plugin.Plugin { return New() }) }
