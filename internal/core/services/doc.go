// Package services implements the core chat pipeline: namespace
// resolution, context retrieval, prompt composition, response generation
// and the orchestrator that composes them, plus the feedback and batch
// indexing services.
//
// Services depend only on the domain package and the driven ports; all
// external I/O goes through injected clients constructed once at
// process start.
package services
