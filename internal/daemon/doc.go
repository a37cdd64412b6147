// Package daemon hosts the long-running lesson processing service: it owns
// the queue store and workflow manager, guards against concurrent
// instances with a lock file, and exposes the administrative operations
// the CLI surfaces.
package daemon
