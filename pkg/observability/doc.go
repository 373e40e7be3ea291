/*
Package observability exports Tendril generation metrics to Prometheus.

A Collector owns the metric vectors and hands out domain.LifecycleHooks that feed
them, so any Grammar can be instrumented with tendril.WithLifecycleHooks.
*/
package observability
