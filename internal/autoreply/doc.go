// Package autoreply answers unread mail while the account owner is away.
//
// The responder is disabled by default. When disabled a poll only reports
// how many messages it would have answered. Each conversation receives at
// most one reply; answered thread IDs are kept in a store.Store.
package autoreply
