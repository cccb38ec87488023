package proxycache

import "time"

// NoExpiry tells Put to skip the EXPIRE command entirely. Any negative
// duration returned by a TTLPolicy is treated the same way.
//
// A policy result of exactly 0 is not "no expiry" and not "expire now":
// it is a configuration error, and the Put that observes it fails.
const NoExpiry = time.Duration(-1)

// TTLPolicy computes the time-to-live for a value about to be written.
// Policies may be constant or derive the TTL from the key/value.
type TTLPolicy func(key, value string) time.Duration

// ConstantTTL returns a policy that expires every entry after d.
// Pass NoExpiry for entries that should never expire.
func ConstantTTL(d time.Duration) TTLPolicy {
	return func(string, string) time.Duration { return d }
}
