// Package model defines the core data structures shared across the
// training pipeline: evaluation metrics, per-epoch training history, and
// the training report that writers render and the run database persists.
//
// Design decision: these types live in their own package, separate from the
// code that computes or renders them, so that the report writers, the
// database layer, and the pipeline can all depend on them without depending
// on each other.
package model
