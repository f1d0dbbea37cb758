// Package google provides OAuth2 authentication and token management for Google APIs.
//
// Tokens are stored per account as JSON files in the user cache directory.
// The TokenProvider interface lets the API clients obtain tokens without
// knowing where they live, and refreshed tokens are written back so a long
// running poller survives access token expiry.
package google
