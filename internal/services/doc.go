// Package services provides shared error classification and context
// annotation helpers used by every pipeline stage.
//
// Stage implementations wrap failures with one of the exported sentinel
// errors so the workflow manager can decide whether an order should be
// marked failed or parked for review. Context helpers carry the order,
// stage, and session identifiers that the logging package turns into
// structured fields.
package services
