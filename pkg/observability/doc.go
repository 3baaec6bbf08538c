/*
Package observability exposes router metrics for Prometheus.

Metrics are registered on their own registry so several routers can live in
one process. Routing counters are fed by the dispatcher and ingestion
(Metrics satisfies the runtime observer contract); session gauges are fed by
supervisor hooks:

	m := observability.NewMetrics()
	r := runner.NewRunner(provider, routing,
		runner.WithObserver(m),
		runner.WithHooks(m.Hooks()),
	)
	http.Handle("/metrics", m.Handler())
*/
package observability
