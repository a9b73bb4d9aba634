// Package stack declares the three managed services of the observability
// stack and the documents generated for them: the visualization-server
// datasource provisioning document, the metrics-server scrape configuration,
// and the process-supervisor unit descriptors.
//
// Definitions are pure data derived from the run configuration; rendering
// them never touches the host, which keeps the fixed schemas testable in
// isolation from the installers.
package stack
