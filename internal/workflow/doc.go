// Package workflow orchestrates lesson order processing.
//
// The manager polls the queue for orders whose status matches a registered
// stage, transitions them to the stage's processing status, runs the
// handler under a heartbeat loop, and advances them on success. Failures
// are classified through the services sentinels: validation and
// configuration problems park the order for manual review, everything else
// marks it failed and retryable.
package workflow
