package domain

// Reservation defaults
const (
	DefaultHoldTTLMinutes = 15
	MinHoldTTLMinutes     = 10
	MaxHoldTTLMinutes     = 15
)

// Business validation constants
const (
	MaxNotesLength      = 500
	MaxSessionIDLength  = 128
	MaxMinNoticeMinutes = 1440
)

// DefaultBusinessTimezone timezone of the coach; all dates and times are local to it
const DefaultBusinessTimezone = "America/Los_Angeles"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
