package models

import "testing"

func TestActiveUsersPrefersTotals(t *testing.T) {
	r := &Report{
		Totals: []ReportRow{{MetricValues: []MetricValue{{Value: "42"}}}},
		Rows:   []ReportRow{{MetricValues: []MetricValue{{Value: "7"}}}},
	}
	got, err := r.ActiveUsers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestActiveUsersFallsBackToRows(t *testing.T) {
	r := &Report{Rows: []ReportRow{{MetricValues: []MetricValue{{Value: "7"}}}}}
	got, err := r.ActiveUsers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestActiveUsersEmptyReportIsZero(t *testing.T) {
	got, err := (&Report{}).ActiveUsers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestActiveUsersMalformed(t *testing.T) {
	r := &Report{Totals: []ReportRow{{MetricValues: []MetricValue{{Value: "abc"}}}}}
	if _, err := r.ActiveUsers(); err == nil {
		t.Fatalf("expected error for non-numeric value")
	}
	r = &Report{Totals: []ReportRow{{MetricValues: []MetricValue{{Value: "-5"}}}}}
	if _, err := r.ActiveUsers(); err == nil {
		t.Fatalf("expected error for negative value")
	}
}

func TestDateRangeFor(t *testing.T) {
	dr, ok := DateRangeFor(Horizon30Days)
	if !ok {
		t.Fatalf("expected range for 30 day horizon")
	}
	if dr.StartDate != "30daysAgo" || dr.EndDate != "today" {
		t.Fatalf("unexpected range %+v", dr)
	}
	if _, ok := DateRangeFor(HorizonNow); ok {
		t.Fatalf("now must not have a report date range")
	}
}
