// Package metrics owns the Prometheus collectors of the summarizer.
//
// HTTP collectors are fed by the HTTP metrics middleware. The summarize_*
// collectors are fed by the pipeline: one RecordSummary per request, one
// RecordSelection per successful request, RecordScorerBatch per scored
// batch and RecordSegmentationFallback whenever the segmenter had to fall
// back. Everything registers with the default registry served on /metrics.
package metrics
