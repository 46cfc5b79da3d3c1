package services

import "time"

// ShiftHours returns the hours worked for a shift as the difference between
// its end and start times, clamped to non-negative. Both the completion
// accounting and the certificate builder use this single calculation.
func ShiftHours(start, end time.Time) float64 {
	hours := end.Sub(start).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}
