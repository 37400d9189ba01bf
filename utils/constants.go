// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// DispatchDedupePrefix is the prefix for notification-dedupe keys.
const DispatchDedupePrefix = "dispatch:"

// DispatchDedupeTTL bounds how long a dispatched-notification marker lives.
const DispatchDedupeTTL = 12 * time.Hour
