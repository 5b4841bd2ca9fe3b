package metrics

import "time"

// OutcomeLabel enumerates compose outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for compose runs.
type Recorder interface {
	ObserveComposeDuration(d time.Duration)
	IncComposeOutcome(outcome OutcomeLabel)
	IncPluginRegistered(name string)
	SetExtensionCount(n int)
	IncOverrideIgnored(extension string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveComposeDuration(time.Duration) {}
func (NoopRecorder) IncComposeOutcome(OutcomeLabel)       {}
func (NoopRecorder) IncPluginRegistered(string)           {}
func (NoopRecorder) SetExtensionCount(int)                {}
func (NoopRecorder) IncOverrideIgnored(string)            {}
