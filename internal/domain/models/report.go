package models

import (
	"fmt"
	"strconv"
)

// MetricValue is a single metric cell in an upstream report response.
type MetricValue struct {
	Value string `json:"value"`
}

// ReportRow is one row (or totals row) of an upstream report response.
type ReportRow struct {
	MetricValues []MetricValue `json:"metricValues"`
}

// Report is the subset of the upstream report response this service reads.
// Both runReport and runRealtimeReport responses decode into it.
type Report struct {
	Totals []ReportRow `json:"totals"`
	Rows   []ReportRow `json:"rows"`
}

// ActiveUsers extracts the metric value with precedence totals > first row.
// An empty report is a valid "no activity" signal and yields 0, not an
// error; a present but non-numeric value is malformed and errors.
func (r *Report) ActiveUsers() (int64, error) {
	if v, ok := firstMetric(r.Totals); ok {
		return parseMetric(v)
	}
	if v, ok := firstMetric(r.Rows); ok {
		return parseMetric(v)
	}
	return 0, nil
}

func firstMetric(rows []ReportRow) (string, bool) {
	if len(rows) == 0 || len(rows[0].MetricValues) == 0 {
		return "", false
	}
	return rows[0].MetricValues[0].Value, true
}

func parseMetric(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed metric value %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative metric value %d", n)
	}
	return n, nil
}
