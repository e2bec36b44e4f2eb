/*
Package observability turns store lifecycle hooks into logs and Prometheus
metrics.

Hooks are plain domain.LifecycleHooks values, so they compose: build one set
per concern and merge them with Combine before passing the result to
vine.WithLifecycleHooks.
*/
package observability
