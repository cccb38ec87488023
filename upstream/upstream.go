// Package upstream models named pools of Redis-family servers and the
// contract for resolving a pool name to a currently-healthy endpoint.
//
// The cache core never connects to a fixed address: every connection
// attempt starts with a Resolver lookup, so a failing server drops out
// of rotation as soon as the health collaborator notices. An Endpoint is
// only valid for the single connection attempt that follows the lookup.
package upstream

import (
	"net"
	"strconv"
)

// Endpoint is a concrete host:port pair for one server in an upstream pool.
type Endpoint struct {
	Host string
	Port int
}

// Addr returns the endpoint in dialable host:port form.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Resolver maps an upstream name to a currently-healthy endpoint.
// ok=false means no server in the pool is healthy right now; callers
// must treat that as a connection failure, not a fault.
type Resolver interface {
	ResolveHealthy(name string) (Endpoint, bool)
}

// Config selects an upstream pool and, optionally, how to authenticate
// against it. CredentialRef names an environment-style variable holding
// the password; the secret itself never lives in configuration. An empty
// or unresolvable CredentialRef means no AUTH step is performed.
type Config struct {
	Name          string
	CredentialRef string
}

// Static resolves every upstream name to the same fixed endpoint.
// Useful for tests and single-node deployments without health checking.
type Static struct {
	Endpoint Endpoint
}

var _ Resolver = Static{}

func (s Static) ResolveHealthy(string) (Endpoint, bool) {
	if s.Endpoint.Host == "" {
		return Endpoint{}, false
	}
	return s.Endpoint, true
}

// StaticMap resolves upstream names through a fixed name -> endpoint table.
type StaticMap map[string]Endpoint

var _ Resolver = StaticMap{}

func (m StaticMap) ResolveHealthy(name string) (Endpoint, bool) {
	ep, ok := m[name]
	return ep, ok
}
