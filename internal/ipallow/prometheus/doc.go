// Package prometheus provides a Prometheus adapter for the ipallow package.
//
// The package exposes ipallow options that install a Prometheus-backed
// Metrics implementation on a filter, using either the default registerer or
// a caller-provided registerer.
package prometheus
