// Package health reports whether the storefront's dependencies are usable.
//
// A Status is healthy, degraded or unhealthy. Aggregate folds several into
// one: any unhealthy part makes the whole unhealthy, otherwise any degraded
// part makes it degraded.
//
// Checker combines two sources:
//
//   - probes, run on every Check (storage ping)
//   - pushed statuses, recorded by callbacks (NATS connection changes)
//
//	checker := health.NewChecker("storefront", 2*time.Second)
//	checker.Register("storage", func(ctx context.Context) health.Status {
//	    return health.FromError("storage", store.Ping(ctx), "MongoDB reachable")
//	})
//	client.OnHealthChange(func(ok bool) {
//	    checker.Set(health.FromBool("events", ok, "NATS connected", "NATS disconnected"))
//	})
//
//	mux.Handle("/health", checker.Handler())
//
// Error messages are sanitized before they are exposed: URLs, paths, IPs,
// ports and credentials are replaced with placeholders.
package health
