// Package composer finalizes a techdocs build configuration. It forces the
// default theme, injects the metadata template, swaps its own plugin entry
// for the search, monorepo and kroki plugins, and registers the default
// markdown extensions with user options layered on top.
package composer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/techdocs-core/internal/config"
	ferrors "git.home.luguber.info/inful/techdocs-core/internal/foundation/errors"
	"git.home.luguber.info/inful/techdocs-core/internal/logfields"
	"git.home.luguber.info/inful/techdocs-core/internal/markdown"
	"git.home.luguber.info/inful/techdocs-core/internal/metadata"
	"git.home.luguber.info/inful/techdocs-core/internal/metrics"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin/kroki"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin/monorepo"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin/search"
	"git.home.luguber.info/inful/techdocs-core/internal/theme"
	"git.home.luguber.info/inful/techdocs-core/internal/workspace"
)

// DefaultPluginName is the key the host registers this plugin under.
const DefaultPluginName = "techdocs-core"

// Environment variables read at compose time.
const (
	EnvKrokiServerURL      = "KROKI_SERVER_URL"
	EnvKrokiDownloadImages = "KROKI_DOWNLOAD_IMAGES"
)

// Composer owns one theme directory and composes one build configuration.
// Callers must Close it.
type Composer struct {
	id         string
	pluginName string
	env        config.Env
	catalog    *plugin.Catalog
	logger     *slog.Logger
	recorder   metrics.Recorder
	tempRoot   string
	themeDir   string
	ws         *workspace.Manager

	mu       sync.Mutex
	composed bool
}

// Option configures a Composer.
type Option func(*Composer)

// WithEnv sets the environment compose reads kroki settings from.
func WithEnv(env config.Env) Option { return func(c *Composer) { c.env = env } }

// WithPluginName sets the registry key compose removes.
func WithPluginName(name string) Option { return func(c *Composer) { c.pluginName = name } }

// WithCatalog sets where dependent plugins are constructed from.
func WithCatalog(cat *plugin.Catalog) Option { return func(c *Composer) { c.catalog = cat } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Composer) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithTempRoot sets the parent of the temporary theme directory.
func WithTempRoot(dir string) Option { return func(c *Composer) { c.tempRoot = dir } }

// WithThemeDir uses a fixed theme directory that Close leaves in place.
func WithThemeDir(dir string) Option { return func(c *Composer) { c.themeDir = dir } }

// New creates a composer and its theme directory.
func New(opts ...Option) (*Composer, error) {
	c := &Composer{
		id:         uuid.NewString(),
		pluginName: DefaultPluginName,
		env:        config.OSEnv,
		catalog:    plugin.DefaultCatalog(),
		logger:     slog.Default(),
		recorder:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.themeDir != "" {
		c.ws = workspace.NewPersistentManager(c.themeDir)
	} else {
		c.ws = workspace.NewManager(c.tempRoot, "techdocs-core-")
	}
	if err := c.ws.Create(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create theme directory").Build()
	}
	c.logger = c.logger.With(logfields.ComposeID(c.id))
	c.logger.Debug("Created theme directory", logfields.Path(c.ws.GetPath()))
	return c, nil
}

// ID identifies this composer in logs.
func (c *Composer) ID() string { return c.id }

// Dir returns the theme directory holding the metadata template.
func (c *Composer) Dir() string { return c.ws.GetPath() }

// Close removes a temporary theme directory. It is safe to call more than
// once and tolerates the directory already being gone.
func (c *Composer) Close() error {
	if err := c.ws.Cleanup(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to remove theme directory").
			WithContext("path", c.ws.GetPath()).
			Build()
	}
	return nil
}

// Compose applies the techdocs defaults to cfg and returns it. overrides maps
// extension names to user options; nil means the options already present in
// cfg, captured before any defaults are applied.
func (c *Composer) Compose(cfg *config.BuildConfig, overrides markdown.Options) (*config.BuildConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.composed {
		return nil, ferrors.InternalError("composer already used").WithContext("compose_id", c.id).Build()
	}
	c.composed = true

	start := time.Now()
	out, err := c.compose(cfg, overrides)
	c.recorder.ObserveComposeDuration(time.Since(start))
	if err != nil {
		c.recorder.IncComposeOutcome(metrics.OutcomeFailed)
		c.logger.Error("Compose failed", logfields.Error(err))
		return nil, err
	}
	c.recorder.IncComposeOutcome(metrics.OutcomeSuccess)
	c.recorder.SetExtensionCount(len(out.MarkdownExtensions))
	c.logger.Info("Composed techdocs configuration",
		logfields.Theme(out.Theme.Name),
		slog.Int("plugins", out.Plugins.Count()),
		slog.Int("extensions", len(out.MarkdownExtensions)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return out, nil
}

func (c *Composer) compose(cfg *config.BuildConfig, overrides markdown.Options) (*config.BuildConfig, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if cfg.Plugins == nil {
		cfg.Plugins = plugin.NewRegistry()
	}
	if overrides == nil {
		overrides = cfg.ExtensionOptions.Clone()
	}

	// Metadata
	path, err := metadata.Write(c.Dir())
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write metadata template").
			WithContext("path", c.Dir()).
			Build()
	}
	c.logger.Debug("Wrote metadata template", logfields.Path(path))

	// Theme
	if !cfg.Theme.IsDefault() {
		cfg.Theme = theme.New(theme.DefaultName)
	} else {
		c.logger.Info(fmt.Sprintf("Overridden '%s' theme settings in use", theme.DefaultName), logfields.Theme(theme.DefaultName))
	}
	cfg.Theme.AddStaticTemplate(metadata.FileName)
	cfg.Theme.AddDir(c.Dir())

	// Plugins
	cfg.Plugins.Delete(c.pluginName)
	if err := c.registerPlugins(cfg.Plugins); err != nil {
		return nil, err
	}

	// Markdown extensions
	if cfg.ExtensionOptions == nil {
		cfg.ExtensionOptions = markdown.Options{}
	}
	cfg.MarkdownExtensions = markdown.ApplyDefaults(cfg.MarkdownExtensions, cfg.ExtensionOptions)

	for _, name := range markdown.MergeOverrides(cfg.ExtensionOptions, overrides) {
		c.recorder.IncOverrideIgnored(name)
		c.logger.Debug("Ignoring options for extension without defaults", logfields.Extension(name))
	}
	return cfg, nil
}

// registerPlugins configures the dependent plugins and registers them,
// overwriting any entry of the same name.
func (c *Composer) registerPlugins(reg *plugin.Registry) error {
	deps := []struct {
		name    string
		options map[string]any
	}{
		{search.Name, map[string]any{"prebuild_index": true, "indexing": search.IndexingFull}},
		{monorepo.Name, map[string]any{}},
		{kroki.Name, map[string]any{
			"ServerURL":      config.String(c.env, EnvKrokiServerURL, kroki.DefaultServerURL),
			"DownloadImages": config.Bool(c.env, EnvKrokiDownloadImages),
		}},
	}
	for _, dep := range deps {
		p, err := c.catalog.New(dep.name)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryPlugin, "plugin not available").
				WithContext("plugin", dep.name).
				Build()
		}
		configured, err := p.Configure(dep.options)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryPlugin, "failed to configure plugin").
				WithContext("plugin", dep.name).
				Build()
		}
		if reg.Has(dep.name) {
			c.logger.Debug("Replacing configured plugin", logfields.Plugin(dep.name))
		}
		reg.Set(dep.name, configured)
		c.recorder.IncPluginRegistered(dep.name)
		c.logger.Debug("Registered plugin", logfields.Plugin(dep.name))
	}
	return nil
}
