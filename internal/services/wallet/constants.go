package wallet

import "time"

// Default policy values; overridable through Config / environment.
const (
	DefaultDailyLimit     = 50000.0
	DefaultFreezeDuration = 2 * time.Minute
	DefaultSpendWindow    = 2 * time.Minute
	DefaultMaxRetries     = 5
	DefaultBaseBackoff    = 100 * time.Millisecond
)
