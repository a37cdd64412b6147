// Package notifications delivers workflow events via ntfy push messages.
//
// The default implementation publishes to the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set.
// Stage and workflow code depends only on the Service interface, and send
// failures are for the caller to log, never to fail an order over.
package notifications
