package composer

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/techdocs-core/internal/config"
	ferrors "git.home.luguber.info/inful/techdocs-core/internal/foundation/errors"
	"git.home.luguber.info/inful/techdocs-core/internal/markdown"
	"git.home.luguber.info/inful/techdocs-core/internal/metadata"
	"git.home.luguber.info/inful/techdocs-core/internal/metrics"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin/kroki"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin/monorepo"
	"git.home.luguber.info/inful/techdocs-core/internal/plugin/search"
	"git.home.luguber.info/inful/techdocs-core/internal/theme"
)

type fakeRecorder struct {
	durations  int
	outcomes   []metrics.OutcomeLabel
	plugins    []string
	extensions int
	ignored    []string
}

func (f *fakeRecorder) ObserveComposeDuration(time.Duration)     { f.durations++ }
func (f *fakeRecorder) IncComposeOutcome(o metrics.OutcomeLabel) { f.outcomes = append(f.outcomes, o) }
func (f *fakeRecorder) IncPluginRegistered(name string)          { f.plugins = append(f.plugins, name) }
func (f *fakeRecorder) SetExtensionCount(n int)                  { f.extensions = n }
func (f *fakeRecorder) IncOverrideIgnored(ext string)            { f.ignored = append(f.ignored, ext) }

func newComposer(t *testing.T, opts ...Option) *Composer {
	t.Helper()
	opts = append([]Option{WithEnv(config.MapEnv{}), WithTempRoot(t.TempDir())}, opts...)
	c, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func compose(t *testing.T, cfg *config.BuildConfig, overrides markdown.Options, opts ...Option) *config.BuildConfig {
	t.Helper()
	out, err := newComposer(t, opts...).Compose(cfg, overrides)
	require.NoError(t, err)
	return out
}

func TestComposeReturnsSameConfig(t *testing.T) {
	cfg := config.New()
	out := compose(t, cfg, nil)
	assert.Same(t, cfg, out)
}

func TestComposeWritesMetadataTemplate(t *testing.T) {
	c := newComposer(t)
	_, err := c.Compose(config.New(), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(c.Dir(), metadata.FileName))
	require.NoError(t, err)
	assert.Equal(t, metadata.Template, string(data))
}

func TestComposeMetadataPreservesMultilineDescription(t *testing.T) {
	c := newComposer(t)
	cfg := config.New()
	cfg.SiteName = "Docs"
	cfg.SiteDescription = "first line\nsecond \"quoted\" line\r\n\tindented"

	out, err := c.Compose(cfg, nil)
	require.NoError(t, err)

	rendered, err := metadata.Render(filepath.Join(c.Dir(), metadata.FileName), out.Site())
	require.NoError(t, err)

	var doc metadata.Document
	require.NoError(t, json.Unmarshal(rendered, &doc))
	assert.Equal(t, cfg.SiteName, doc.SiteName)
	assert.Equal(t, cfg.SiteDescription, doc.SiteDescription)
}

func TestComposeForcesDefaultTheme(t *testing.T) {
	cfg := config.New()
	cfg.Theme = theme.FromSettings("readthedocs", map[string]any{"custom_dir": "overrides"})

	c := newComposer(t)
	out, err := c.Compose(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, theme.DefaultName, out.Theme.Name)
	assert.Equal(t, []string{c.Dir()}, out.Theme.Dirs)
	assert.True(t, out.Theme.StaticTemplates.Has(metadata.FileName))
	assert.Empty(t, out.Theme.Settings)
}

func TestComposeReplacesNilTheme(t *testing.T) {
	cfg := config.New()
	cfg.Theme = nil
	out := compose(t, cfg, nil)
	require.NotNil(t, out.Theme)
	assert.Equal(t, theme.DefaultName, out.Theme.Name)
}

func TestComposeKeepsMaterialSettings(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := config.New()
	cfg.Theme = theme.FromSettings(theme.DefaultName, map[string]any{
		"custom_dir": "overrides",
		"palette":    map[string]any{"primary": "indigo"},
	})

	c := newComposer(t, WithLogger(logger))
	out, err := c.Compose(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"overrides", c.Dir()}, out.Theme.Dirs)
	assert.Equal(t, map[string]any{"primary": "indigo"}, out.Theme.Settings["palette"])
	assert.Contains(t, logs.String(), "Overridden 'material' theme settings in use")
}

func TestComposeRemovesOwnPlugin(t *testing.T) {
	tests := []struct {
		name       string
		pluginName string
	}{
		{"default key", DefaultPluginName},
		{"custom key", "techdocs-core-fork"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Plugins.Set(tt.pluginName, plugin.NewOpaque(tt.pluginName))
			cfg.Plugins.Set("awesome-pages", plugin.NewOpaque("awesome-pages"))

			out := compose(t, cfg, nil, WithPluginName(tt.pluginName))
			assert.False(t, out.Plugins.Has(tt.pluginName))
			assert.Equal(t, []string{"awesome-pages", search.Name, monorepo.Name, kroki.Name}, out.Plugins.Names())
		})
	}
}

func TestComposeWithoutOwnPlugin(t *testing.T) {
	out := compose(t, config.New(), nil)
	assert.Equal(t, []string{search.Name, monorepo.Name, kroki.Name}, out.Plugins.Names())
}

func TestComposeOverwritesExistingPluginsInPlace(t *testing.T) {
	cfg := config.New()
	cfg.Plugins.Set(search.Name, plugin.NewOpaque(search.Name))
	cfg.Plugins.Set("macros", plugin.NewOpaque("macros"))

	out := compose(t, cfg, nil)
	assert.Equal(t, []string{search.Name, "macros", monorepo.Name, kroki.Name}, out.Plugins.Names())

	p, ok := out.Plugins.Get(search.Name)
	require.True(t, ok)
	sp, ok := p.(*search.Plugin)
	require.True(t, ok)
	assert.True(t, sp.Config().PrebuildIndex)
	assert.Equal(t, search.IndexingFull, sp.Config().Indexing)
}

func krokiConfig(t *testing.T, cfg *config.BuildConfig) kroki.Config {
	t.Helper()
	p, ok := cfg.Plugins.Get(kroki.Name)
	require.True(t, ok)
	kp, ok := p.(*kroki.Plugin)
	require.True(t, ok)
	return kp.Config()
}

func TestComposeKrokiFromEnv(t *testing.T) {
	env := config.MapEnv{
		EnvKrokiServerURL:      "https://test-kroki.com",
		EnvKrokiDownloadImages: "1",
	}
	out := compose(t, config.New(), nil, WithEnv(env))

	kc := krokiConfig(t, out)
	assert.Equal(t, "https://test-kroki.com", kc.ServerURL)
	assert.True(t, kc.DownloadImages)
}

func TestComposeKrokiDefaults(t *testing.T) {
	out := compose(t, config.New(), nil)
	kc := krokiConfig(t, out)
	assert.Equal(t, kroki.DefaultServerURL, kc.ServerURL)
	assert.False(t, kc.DownloadImages)
}

func TestComposeKrokiDownloadImagesValues(t *testing.T) {
	tests := map[string]bool{
		"true":  true,
		"TRUE":  true,
		"1":     true,
		"yes":   false,
		"0":     false,
		"false": false,
		"":      false,
	}
	for value, want := range tests {
		t.Run(value, func(t *testing.T) {
			out := compose(t, config.New(), nil, WithEnv(config.MapEnv{EnvKrokiDownloadImages: value}))
			assert.Equal(t, want, krokiConfig(t, out).DownloadImages)
		})
	}
}

func TestComposeKrokiServerURLIsNotValidated(t *testing.T) {
	for _, url := range []string{"", "kroki:8000", "localhost:8000", "not a url"} {
		t.Run(url, func(t *testing.T) {
			out := compose(t, config.New(), nil, WithEnv(config.MapEnv{EnvKrokiServerURL: url}))
			assert.Equal(t, url, krokiConfig(t, out).ServerURL)
		})
	}
}

func TestComposeLogsReplacedPlugins(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := config.New()
	cfg.Plugins.Set(search.Name, plugin.NewOpaque(search.Name))
	compose(t, cfg, nil, WithLogger(logger))

	var replaced []string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, `msg="Replacing configured plugin"`) {
			replaced = append(replaced, line)
		}
	}
	require.Len(t, replaced, 1)
	assert.Contains(t, replaced[0], "plugin=search")
}

func TestComposeMissingPluginIsPluginError(t *testing.T) {
	cat := plugin.NewCatalog()
	require.NoError(t, cat.Register(search.Name, func() plugin.Plugin { return search.New() }))

	c := newComposer(t, WithCatalog(cat))
	_, err := c.Compose(config.New(), nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryPlugin))
}

func TestComposeMetadataWriteFailure(t *testing.T) {
	c := newComposer(t)
	require.NoError(t, os.RemoveAll(c.Dir()))

	_, err := c.Compose(config.New(), nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestComposeAppendsDefaultExtensions(t *testing.T) {
	cfg := config.New()
	cfg.MarkdownExtensions = []string{"footnotes", markdown.ExtTOC}

	out := compose(t, cfg, nil)
	want := append([]string{"footnotes", markdown.ExtTOC}, markdown.DefaultExtensions()...)
	assert.Equal(t, want, out.MarkdownExtensions)
	assert.Contains(t, out.MarkdownExtensions, markdown.ExtTrulySaneLists)
	assert.NotContains(t, out.MarkdownExtensions, markdown.ExtBetterEm)
}

func TestComposeDefaultOptions(t *testing.T) {
	out := compose(t, config.New(), markdown.Options{})

	opts := out.ExtensionOptions
	assert.Equal(t, map[string]any{"permalink": true}, opts[markdown.ExtTOC])
	assert.Equal(t, map[string]any{"linenums": true, "pygments_lang_class": true}, opts[markdown.ExtHighlight])
	assert.Equal(t, map[string]any{"smart_enable": "all"}, opts[markdown.ExtBetterEm])
	assert.Equal(t, map[string]any{"alternate_style": true}, opts[markdown.ExtTabbed])
	assert.Equal(t, map[string]any{"custom_checkbox": true}, opts[markdown.ExtTaskList])

	gen, ok := opts[markdown.ExtEmoji]["emoji_generator"].(markdown.EmojiGenerator)
	require.True(t, ok)
	assert.Equal(t, markdown.ToSVG.Ref(), gen.Ref())
}

func TestComposeOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides markdown.Options
		want      map[string]any
	}{
		{
			name:      "adds keys",
			overrides: markdown.Options{markdown.ExtTOC: {"toc_depth": 3}},
			want:      map[string]any{"permalink": true, "toc_depth": 3},
		},
		{
			name:      "user wins",
			overrides: markdown.Options{markdown.ExtTOC: {"permalink": false}},
			want:      map[string]any{"permalink": false},
		},
		{
			name:      "empty override",
			overrides: markdown.Options{markdown.ExtTOC: {}},
			want:      map[string]any{"permalink": true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := compose(t, config.New(), tt.overrides)
			assert.Equal(t, tt.want, out.ExtensionOptions[markdown.ExtTOC])
		})
	}
}

func TestComposeIgnoresUnknownOverrides(t *testing.T) {
	rec := &fakeRecorder{}
	overrides := markdown.Options{"footnotes": {"backlink_text": "^"}}
	out := compose(t, config.New(), overrides, WithRecorder(rec))

	assert.NotContains(t, out.ExtensionOptions, "footnotes")
	assert.NotContains(t, out.MarkdownExtensions, "footnotes")
	assert.Equal(t, []string{"footnotes"}, rec.ignored)
}

func TestComposeNilOverridesUsesConfiguredOptions(t *testing.T) {
	cfg := config.New()
	cfg.MarkdownExtensions = []string{"footnotes", markdown.ExtTOC}
	cfg.ExtensionOptions = markdown.Options{
		"footnotes":        {"backlink_text": "^"},
		markdown.ExtTOC:    {"toc_depth": 2},
		markdown.ExtTabbed: {"alternate_style": false},
	}

	out := compose(t, cfg, nil)
	assert.Equal(t, map[string]any{"backlink_text": "^"}, out.ExtensionOptions["footnotes"])
	assert.Equal(t, map[string]any{"permalink": true, "toc_depth": 2}, out.ExtensionOptions[markdown.ExtTOC])
	assert.Equal(t, map[string]any{"alternate_style": false}, out.ExtensionOptions[markdown.ExtTabbed])
}

func TestComposeFromLoadedConfig(t *testing.T) {
	src := `
site_name: Loaded
plugins:
  - techdocs-core
markdown_extensions:
  - toc:
      toc_depth: 4
`
	cfg, err := config.Parse([]byte(src), config.MapEnv{})
	require.NoError(t, err)

	out := compose(t, cfg, nil)
	assert.False(t, out.Plugins.Has(DefaultPluginName))
	assert.Equal(t, map[string]any{"permalink": true, "toc_depth": 4}, out.ExtensionOptions[markdown.ExtTOC])
	assert.Equal(t, markdown.ExtTOC, out.MarkdownExtensions[0])
}

func TestComposeNilConfig(t *testing.T) {
	out := compose(t, nil, nil)
	require.NotNil(t, out)
	assert.Equal(t, theme.DefaultName, out.Theme.Name)
	assert.Len(t, out.MarkdownExtensions, len(markdown.DefaultExtensions()))
}

func TestComposeIsSingleUse(t *testing.T) {
	c := newComposer(t)
	_, err := c.Compose(config.New(), nil)
	require.NoError(t, err)

	_, err = c.Compose(config.New(), nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInternal))
}

func TestComposeRecordsMetrics(t *testing.T) {
	rec := &fakeRecorder{}
	compose(t, config.New(), nil, WithRecorder(rec))

	assert.Equal(t, 1, rec.durations)
	assert.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeSuccess}, rec.outcomes)
	assert.Equal(t, len(markdown.DefaultExtensions()), rec.extensions)
	assert.Equal(t, []string{search.Name, monorepo.Name, kroki.Name}, rec.plugins)
	assert.Empty(t, rec.ignored)
}

func TestComposeRecordsFailure(t *testing.T) {
	rec := &fakeRecorder{}
	c := newComposer(t, WithRecorder(rec))
	require.NoError(t, os.RemoveAll(c.Dir()))
	_, err := c.Compose(config.New(), nil)
	require.Error(t, err)

	assert.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeFailed}, rec.outcomes)
}

func TestNewCreatesTempDir(t *testing.T) {
	root := t.TempDir()
	c, err := New(WithTempRoot(root))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.NotEmpty(t, c.ID())
	assert.Equal(t, root, filepath.Dir(c.Dir()))
	assert.Contains(t, filepath.Base(c.Dir()), "techdocs-core-")
	info, err := os.Stat(c.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewFailsForMissingTempRoot(t *testing.T) {
	_, err := New(WithTempRoot(filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestCloseRemovesTempDir(t *testing.T) {
	c := newComposer(t)
	_, err := c.Compose(config.New(), nil)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	_, err = os.Stat(c.Dir())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, c.Close())
}

func TestCloseToleratesRemovedDir(t *testing.T) {
	c := newComposer(t)
	require.NoError(t, os.RemoveAll(c.Dir()))
	assert.NoError(t, c.Close())
}

func TestThemeDirSurvivesClose(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "theme")
	c, err := New(WithEnv(config.MapEnv{}), WithThemeDir(dir))
	require.NoError(t, err)

	out, err := c.Compose(config.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, out.Theme.Dirs)

	require.NoError(t, c.Close())
	_, err = os.Stat(filepath.Join(dir, metadata.FileName))
	assert.NoError(t, err)
}
