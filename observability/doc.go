// Package observability wires OpenTelemetry tracing and metrics.
//
// With Config.Enabled the OTLP/HTTP exporters are installed as the global
// providers; otherwise the global no-op providers stay in place and the
// helpers here cost nothing.
//
//	c := observability.NewComponent(cfg, observability.Resource{ServiceName: "marketweb"})
//	registry.Register(c)
//
//	ctx, span := observability.StartSpan(ctx, "providers.list")
//	defer span.End()
package observability
