// Package health provides liveness and readiness probe handlers.
//
// [LivenessHandler] always reports healthy while the process runs.
// [ReadinessHandler] runs a set of named [Checks] in parallel, each bounded by
// a shared timeout, and reports 503 if any of them fails.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "controllers": registryCheck,
//	}, health.WithTimeout(2*time.Second)))
//
// Both handlers answer with JSON:
//
//	{"status":"unhealthy","checks":{"controllers":{"status":"unhealthy","error":"no controllers registered"}}}
package health
