package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/techdocs-core/internal/logfields"
	"git.home.luguber.info/inful/techdocs-core/internal/metrics"
	"git.home.luguber.info/inful/techdocs-core/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	ComposeCmd `embed:""`

	Debounce time.Duration `name:"debounce" default:"500ms" help:"Quiet period before re-composing"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return w.run(ctx, g, root)
}

func (w *WatchCmd) run(ctx context.Context, g *Global, root *CLI) error {
	logger := g.logger()
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	rerun := func(context.Context) error {
		env, err := root.Env()
		if err != nil {
			return err
		}
		if _, err := w.compose(g.stdout(), logger, env, rec); err != nil {
			return err
		}
		return w.writeMetrics(reg)
	}

	// A broken initial config is reported but the watcher still starts so
	// the user can fix it.
	if err := rerun(ctx); err != nil {
		logger.Error("Initial compose failed", logfields.Error(err))
	}

	cw, err := watch.New(w.File, rerun, watch.WithDebounce(w.Debounce), watch.WithLogger(logger))
	if err != nil {
		return err
	}
	return cw.Run(ctx)
}
