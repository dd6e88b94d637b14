// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// Driven ports are implemented by adapters in internal/adapters/driven and
// consumed by the services in internal/core/services. The language model,
// embedding provider, vector store and feedback store are long-lived
// clients constructed once at process start and shared across requests;
// implementations must be safe for concurrent read-only use, and no
// per-request configuration may be applied by mutating a shared field.
package driven
