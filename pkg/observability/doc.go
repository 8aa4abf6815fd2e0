/*
Package observability exposes keyboard engine activity as Prometheus metrics.

Metrics are fed exclusively through domain.LifecycleHooks:

	m, err := observability.NewMetrics(prometheus.DefaultRegisterer, "cats")
	kb, err := keyboard.New(cfg, keyboard.WithLifecycleHooks(m.Hooks()))
*/
package observability
