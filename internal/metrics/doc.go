// Package metrics provides build metrics for mockingbird.
//
// Components receive a Recorder through an option and default to
// NoopRecorder, so call sites never check for nil:
//
//	engine := render.Site(ctx, site, visitor, render.WithRecorder(rec))
//
// PrometheusRecorder registers its collectors on a caller supplied registry.
// The build command writes that registry to a node-exporter textfile when
// --metrics-file is given; nothing is served over the network.
package metrics
