// File: utils/constants.go
package utils

import "time"

// SessionCachePrefix is the prefix used for Redis booking-session cache keys.
const SessionCachePrefix = "bookingsession:"

// SessionCacheTTL is the time-to-live for booking-session cache entries.
const SessionCacheTTL = 30 * time.Minute

// PaymentAuditPrefix is the prefix used for Redis payment-intent audit keys.
const PaymentAuditPrefix = "paymentintent:"

// PaymentAuditTTL is the time-to-live for payment-intent audit records.
const PaymentAuditTTL = 24 * time.Hour
