// Package metrics records what content updater runs did.
//
// Components receive a Recorder and never check for nil: NoopRecorder is the
// default and does nothing. When a metrics textfile is configured the CLI
// swaps in a PrometheusRecorder and, after every run, writes its registry in
// the node-exporter textfile collector format:
//
//	reg := prom.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	// ... run ...
//	err := metrics.WriteTextfile(reg, "/var/lib/node_exporter/contentmigrate.prom")
package metrics
