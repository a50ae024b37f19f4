package usecase

import "math"

// realtimeWindowsPerDay is the number of 30-minute realtime windows in a
// day. Dividing the daily total by it approximates a realtime headcount.
const realtimeWindowsPerDay = 48

// Estimate derives an active-now value from the today total for brands
// whose property cannot be queried in realtime. Never returns less than 1
// so estimated brands stay visible on dashboards.
func Estimate(today int64) int64 {
	est := int64(math.Round(float64(today) / realtimeWindowsPerDay))
	if est < 1 {
		return 1
	}
	return est
}
