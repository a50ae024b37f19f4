package models

// MatchType mirrors the upstream string filter match types.
type MatchType string

const (
	MatchTypeUnspecified MatchType = "MATCH_TYPE_UNSPECIFIED"
	MatchTypeExact       MatchType = "EXACT"
	MatchTypeContains    MatchType = "CONTAINS"
	MatchTypeBeginsWith  MatchType = "BEGINS_WITH"
	MatchTypeEndsWith    MatchType = "ENDS_WITH"
)

// DimensionFilter narrows a report query to rows matching one dimension.
// Realtime queries do not support dimension filters upstream.
type DimensionFilter struct {
	FieldName     string    `json:"fieldName"`
	MatchType     MatchType `json:"matchType"`
	Value         string    `json:"value"`
	CaseSensitive bool      `json:"caseSensitive"`
}

// BrandConfig is one brand as served by the config provider: display
// metadata plus the upstream property it maps to and an optional filter.
type BrandConfig struct {
	Name       string           `json:"name"`
	PropertyID string           `json:"property_id"`
	Image      string           `json:"image,omitempty"`
	Group      string           `json:"group,omitempty"`
	Filter     *DimensionFilter `json:"filter,omitempty"`
}
