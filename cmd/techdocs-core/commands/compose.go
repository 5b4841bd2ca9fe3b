package commands

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/techdocs-core/internal/composer"
	"git.home.luguber.info/inful/techdocs-core/internal/config"
	ferrors "git.home.luguber.info/inful/techdocs-core/internal/foundation/errors"
	"git.home.luguber.info/inful/techdocs-core/internal/logfields"
	"git.home.luguber.info/inful/techdocs-core/internal/metrics"
)

// ComposeCmd implements the 'compose' command.
type ComposeCmd struct {
	File        string `short:"f" name:"config-file" default:"mkdocs.yml" type:"path" help:"mkdocs configuration to compose"`
	Output      string `short:"o" type:"path" help:"Write the composed configuration here instead of stdout"`
	MetricsFile string `name:"metrics-file" type:"path" help:"Write compose metrics to this Prometheus textfile"`
	PluginName  string `name:"plugin-name" default:"techdocs-core" help:"Key this plugin is registered under in the configuration"`
	WorkDir     string `name:"work-dir" type:"path" help:"Parent of the temporary theme directory (defaults to the system temp dir)"`
	ThemeDir    string `name:"theme-dir" type:"path" help:"Fixed theme directory kept after composing, for configurations written to disk"`
}

func (c *ComposeCmd) Run(g *Global, root *CLI) error {
	env, err := root.Env()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	if _, err := c.compose(g.stdout(), g.logger(), env, rec); err != nil {
		return err
	}
	return c.writeMetrics(reg)
}

// compose loads the configuration, composes it and writes the result.
func (c *ComposeCmd) compose(stdout io.Writer, logger *slog.Logger, env config.Env, rec metrics.Recorder) (*config.BuildConfig, error) {
	cfg, err := config.Load(c.File, env)
	if err != nil {
		return nil, err
	}

	out, err := c.composeConfig(cfg, logger, env, rec)
	if err != nil {
		return nil, err
	}
	if c.ThemeDir == "" {
		logger.Warn("Theme directory was temporary and has been removed; use --theme-dir to keep it for the composed configuration",
			logfields.Path(lastDir(out.Theme.Dirs)))
	}

	if c.Output == "" {
		if err := config.Encode(stdout, out); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to write composed configuration").Build()
		}
		return out, nil
	}
	if err := config.Save(c.Output, out); err != nil {
		return nil, err
	}
	logger.Info("Wrote composed configuration", logfields.Path(c.Output))
	return out, nil
}

func (c *ComposeCmd) composeConfig(cfg *config.BuildConfig, logger *slog.Logger, env config.Env, rec metrics.Recorder) (*config.BuildConfig, error) {
	opts := []composer.Option{
		composer.WithEnv(env),
		composer.WithLogger(logger),
		composer.WithRecorder(rec),
		composer.WithTempRoot(c.WorkDir),
	}
	if c.PluginName != "" {
		opts = append(opts, composer.WithPluginName(c.PluginName))
	}
	if c.ThemeDir != "" {
		opts = append(opts, composer.WithThemeDir(c.ThemeDir))
	}
	comp, err := composer.New(opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := comp.Close(); cerr != nil {
			logger.Warn("Failed to remove theme directory", logfields.Error(cerr))
		}
	}()
	return comp.Compose(cfg, nil)
}

func lastDir(dirs []string) string {
	if len(dirs) == 0 {
		return ""
	}
	return dirs[len(dirs)-1]
}

func (c *ComposeCmd) writeMetrics(g prometheus.Gatherer) error {
	if c.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(c.MetricsFile, g); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write metrics").
			WithContext("path", c.MetricsFile).
			Build()
	}
	return nil
}
