// Package queue persists lesson orders in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, heartbeat tracking, stuck-order recovery, and status transitions
// that mirror the workflow enum. Orders capture the frozen intake, the
// generated artifacts, and progress so stages can coordinate without
// additional state.
//
// The database is treated as transient storage for in-flight orders rather
// than a long-term archive. Schema changes bump the version in schema.go;
// users clear the database to adopt the new schema.
package queue
