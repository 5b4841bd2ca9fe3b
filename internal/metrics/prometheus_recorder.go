package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "techdocs_core"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	composeDuration   prom.Histogram
	composeOutcomes   *prom.CounterVec
	pluginsRegistered *prom.CounterVec
	extensionCount    prom.Gauge
	overridesIgnored  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers compose metrics on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		composeDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compose_duration_seconds",
			Help:      "Duration of configuration compose runs",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		composeOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "compose_outcomes_total",
			Help:      "Compose runs by outcome",
		}, []string{"outcome"}),
		pluginsRegistered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "plugins_registered_total",
			Help:      "Dependent plugins registered by compose",
		}, []string{"plugin"}),
		extensionCount: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "markdown_extensions",
			Help:      "Markdown extensions in the last composed configuration",
		}),
		overridesIgnored: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "extension_overrides_ignored_total",
			Help:      "User extension options dropped because the extension has no defaults",
		}, []string{"extension"}),
	}
	reg.MustRegister(pr.composeDuration, pr.composeOutcomes, pr.pluginsRegistered, pr.extensionCount, pr.overridesIgnored)
	return pr
}

func (p *PrometheusRecorder) ObserveComposeDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.composeDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncComposeOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.composeOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncPluginRegistered(name string) {
	if p == nil {
		return
	}
	p.pluginsRegistered.WithLabelValues(name).Inc()
}

func (p *PrometheusRecorder) SetExtensionCount(n int) {
	if p == nil {
		return
	}
	p.extensionCount.Set(float64(n))
}

func (p *PrometheusRecorder) IncOverrideIgnored(extension string) {
	if p == nil {
		return
	}
	p.overridesIgnored.WithLabelValues(extension).Inc()
}

// WriteTextfile writes everything gathered from g to path in the text
// exposition format.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := prom.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
