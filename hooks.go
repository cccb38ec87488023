package proxycache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A read found a value in the backend.
	Hit(variant, key string)

	// A read missed: the key was absent, or the connection/command
	// failed and was degraded to miss semantics.
	Miss(variant, key string)

	// Acquiring a connection failed. err is a *ConnFailure wrapping
	// the resolution, dial, or AUTH error.
	ConnFailure(upstream string, err error)

	// A get command failed at the protocol level (distinct from a miss).
	CommandError(variant, key string, err error)

	// A pipelined put/evict batch failed to commit.
	WriteError(variant, key string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string, string)                 {}
func (NopHooks) Miss(string, string)                {}
func (NopHooks) ConnFailure(string, error)          {}
func (NopHooks) CommandError(string, string, error) {}
func (NopHooks) WriteError(string, string, error)   {}
