// Package metrics provides compose metrics behind a Recorder interface.
//
// Components default to NoopRecorder and receive a real implementation
// through injection:
//
//	reg := prometheus.NewRegistry()
//	c, err := composer.New(composer.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// One-shot CLI runs export the registry as a node-exporter textfile with
// WriteTextfile.
package metrics
