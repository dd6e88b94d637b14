// Package driving provides interfaces consumed by external actors (primary/inbound ports).
//
// The HTTP API and the CLI both talk to the core exclusively through
// these interfaces; neither carries any pipeline logic of its own.
package driving
