// Package notifications delivers optional ntfy push messages for session
// events. When no topic is configured the service degrades to a noop so
// callers never need to branch on configuration.
package notifications
