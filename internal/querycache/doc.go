// Package querycache implements the SQLite-backed read-through cache that
// deduplicates upstream catalog fetches.
//
// Every value is stored as text under a unique string key: structured
// payloads as re-indented JSON, binary payloads as base64. On a miss the
// supplied fetch callback runs exactly once per key, guarded by a
// single-flight group so concurrent lookups for the same key share one
// fetch while lookups for distinct keys proceed independently. Fetch
// failures persist nothing, so the next lookup retries.
//
// Two persisted counters track usage: num_query increments on every lookup,
// num_hit only when the key was already present. Both rows are seeded to
// zero when the store opens.
package querycache
