package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// NAV series change once per trading day; the short TTL keeps simulations
	// responsive to fresh publications without hammering the provider.
	TTLNAVHistory = time.Hour

	// Fund metadata (fund house, category) is effectively static.
	TTLFundMeta = 7 * 24 * time.Hour

	// The full fund list is large and changes rarely.
	TTLFundList = 24 * time.Hour

	// Expired entries are kept around this long as stale fallbacks before
	// cleanup removes them.
	CleanupGrace = 30 * 24 * time.Hour
)
