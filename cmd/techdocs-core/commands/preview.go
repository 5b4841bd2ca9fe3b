package commands

import (
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/techdocs-core/internal/config"
	ferrors "git.home.luguber.info/inful/techdocs-core/internal/foundation/errors"
	"git.home.luguber.info/inful/techdocs-core/internal/logfields"
	"git.home.luguber.info/inful/techdocs-core/internal/markdown"
	"git.home.luguber.info/inful/techdocs-core/internal/metrics"
)

// PreviewCmd renders a markdown file with the extensions a composed build enables.
type PreviewCmd struct {
	Source     string `arg:"" type:"existingfile" help:"Markdown file to render"`
	File       string `short:"f" name:"config-file" default:"mkdocs.yml" type:"path" help:"mkdocs configuration (optional; defaults apply when missing)"`
	Output     string `short:"o" type:"path" help:"Write HTML here instead of stdout"`
	PluginName string `name:"plugin-name" default:"techdocs-core" help:"Key this plugin is registered under in the configuration"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	logger := g.logger()
	env, err := root.Env()
	if err != nil {
		return err
	}

	cfg, err := config.Load(p.File, env)
	if err != nil {
		if !ferrors.HasCategory(err, ferrors.CategoryNotFound) {
			return err
		}
		logger.Info("No configuration found, previewing with defaults", logfields.Path(p.File))
		cfg = config.New()
	}

	cc := &ComposeCmd{PluginName: p.PluginName}
	out, err := cc.composeConfig(cfg, logger, env, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	r := markdown.NewRenderer(out.MarkdownExtensions)
	if unsupported := r.Unsupported(); len(unsupported) > 0 {
		logger.Debug("Extensions without a preview equivalent", slog.String("extensions", strings.Join(unsupported, ",")))
	}

	src, err := os.ReadFile(p.Source)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read markdown source").
			WithContext("path", p.Source).
			Build()
	}
	html, err := r.Render(src)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to render markdown").
			WithContext("path", p.Source).
			Build()
	}

	if p.Output == "" {
		_, err = g.stdout().Write(html)
		return err
	}
	if err := os.WriteFile(p.Output, html, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write preview").
			WithContext("path", p.Output).
			Build()
	}
	logger.Info("Wrote preview", logfields.Path(p.Output))
	return nil
}
