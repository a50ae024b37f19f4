package models

// Requests and responses for the active-users HTTP endpoints. Defined in
// domain for consistency and reuse.

type ActiveNowRequest struct {
	IntervalMS int `query:"intervalms" json:"intervalms" default:"0" validate:"gte=0"`
}

type ActiveNowResponse struct {
	ActiveUsers int64 `json:"activeUsers"`
	Cached      bool  `json:"cached"`
}

type AllActiveResponse struct {
	Data map[string]BrandStats `json:"data"`
}
