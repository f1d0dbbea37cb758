// Package store keeps track of mail messages and threads that have already
// been handled, so pollers do not act on them twice.
//
// Three backends are available: Memory (lost on restart), SQLite (a local
// file) and Redis (shared between hosts, optional TTL). Open picks one from
// the configuration; Namespace lets several services share a backend.
package store
