package domain

import "time"

// Expiry math lives here and nowhere else. The original product grew three
// drifting copies of this logic across its front ends, one of which excluded
// day 0 from "expiring soon"; the consolidated rule is inclusive of today:
// a policy expiring today is EXPIRING_SOON (day 0), and EXPIRED begins at
// day -1.

// civilDate truncates t to a calendar date at UTC midnight. All expiry math
// operates on calendar days, never wall-clock durations.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntilExpiry returns the signed number of calendar days from today to
// the expiry date: positive in the future, negative in the past, 0 today.
func DaysUntilExpiry(expiryDate, today time.Time) int {
	return int(civilDate(expiryDate).Sub(civilDate(today)).Hours() / 24)
}

// IsExpired reports whether the expiry date has passed. Expiring today is
// not expired.
func IsExpired(expiryDate, today time.Time) bool {
	return DaysUntilExpiry(expiryDate, today) < 0
}

// IsExpiringSoon reports whether the policy expires within the reminder
// window, today included.
func IsExpiringSoon(expiryDate time.Time, reminderDaysBefore int, today time.Time) bool {
	days := DaysUntilExpiry(expiryDate, today)
	return days >= 0 && days <= reminderDaysBefore
}

// Status classifies an expiry date. EXPIRED wins over EXPIRING_SOON.
func Status(expiryDate time.Time, reminderDaysBefore int, today time.Time) PolicyStatus {
	switch {
	case IsExpired(expiryDate, today):
		return StatusExpired
	case IsExpiringSoon(expiryDate, reminderDaysBefore, today):
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}
