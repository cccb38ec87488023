// Package proxycache persists request/response payloads in a Redis-family
// backend behind health-checked upstream pools. Reads go to a read-only
// pool, writes and evictions to a read-write pool; the storage encoding
// (plain key, hash field, set member) is pluggable per store.
//
// Components:
//   - upstream.Resolver: maps an upstream name to a currently-healthy
//     endpoint (upstream/health ships a TCP-probing implementation).
//   - Variant: the command shape for one storage encoding.
//   - TTLPolicy: seconds-to-live per write, or NoExpiry.
//   - SecretFunc: resolves credential references at connection time.
//
// Failure policy: the cache never fails the serving path. No healthy
// endpoint, a refused AUTH, a protocol error - all of it degrades to a
// miss on Get and a false return on Put/Evict, paired with a diagnostic
// log and a Hooks event.
//
// Write pattern:
//
//	store, _ := proxycache.New(proxycache.Options{
//	    Variant:   proxycache.StringVariant{},
//	    Resolver:  checker, // *health.Checker or any upstream.Resolver
//	    TTLPolicy: proxycache.ConstantTTL(time.Minute),
//	})
//	store.Put(ctx, "session:42", payload) // pipelined [SET, EXPIRE]
package proxycache
