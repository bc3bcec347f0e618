/*
Package observability provides tools for monitoring the sortviz recorder.

It turns domain.LifecycleHooks into Prometheus metrics and structured log lines, and
combines several hook sets into one so an Engine can feed both at once.
*/
package observability
