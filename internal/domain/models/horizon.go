package models

// Horizon is one of the fixed measurement windows. The JSON names match the
// keys dashboard clients expect ("30" and "365" are day counts).
type Horizon string

const (
	HorizonNow     Horizon = "now"
	HorizonToday   Horizon = "today"
	Horizon30Days  Horizon = "30"
	Horizon365Days Horizon = "365"
)

// ReportHorizons lists the horizons resolved via runReport queries, in no
// particular order. HorizonNow is resolved separately (realtime query or
// estimation) and always after HorizonToday for the same brand.
func ReportHorizons() []Horizon {
	return []Horizon{HorizonToday, Horizon30Days, Horizon365Days}
}

// DateRange is an upstream report date range. Values are the relative date
// strings the upstream API accepts ("today", "30daysAgo", "365daysAgo").
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// DateRangeFor returns the deterministic date range for a report horizon.
// HorizonNow has no date range; callers must use the realtime query shape.
func DateRangeFor(h Horizon) (DateRange, bool) {
	switch h {
	case HorizonToday:
		return DateRange{StartDate: "today", EndDate: "today"}, true
	case Horizon30Days:
		return DateRange{StartDate: "30daysAgo", EndDate: "today"}, true
	case Horizon365Days:
		return DateRange{StartDate: "365daysAgo", EndDate: "today"}, true
	default:
		return DateRange{}, false
	}
}

// BrandStats is the per-brand slice of the aggregate snapshot.
type BrandStats struct {
	Now     int64 `json:"now"`
	Today   int64 `json:"today"`
	Days30  int64 `json:"30"`
	Days365 int64 `json:"365"`
}
