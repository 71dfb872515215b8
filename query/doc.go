// Package query is a keyed cache for remote reads with freshness, eviction,
// retry and stale-while-error semantics.
//
// Each query is identified by a structured Key. Data younger than StaleTime
// is served from memory; older data triggers a fetch. Concurrent fetches of
// the same key share one call. A failed fetch keeps the last good data when
// KeepPreviousData is set, so readers see both the data and the error.
// Entries nobody has read for GCTime are evicted by the client's janitor.
//
//	q := query.NewQuery(client, query.Key{"providers", "list", filters}, fetch, opts)
//	st := q.Fetch(ctx)
//	if st.IsError() && st.HasData { /* render stale data with an error banner */ }
package query
