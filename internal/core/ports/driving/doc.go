// Package driving defines the interfaces through which the outside world
// calls INTO the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The HTTP API and the CLI depend on these interfaces; core services
// implement them.
package driving
