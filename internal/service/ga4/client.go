// Package ga4 implements the upstream AnalyticsClient against the
// Analytics Data API v1beta over REST.
package ga4

import (
	"context"
	"fmt"
	"time"

	"BrandPulse/internal/domain/models"
	"BrandPulse/internal/domain/repository"
	xhttp "BrandPulse/pkg/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const readScope = "https://www.googleapis.com/auth/analytics.readonly"

// Client calls the Analytics Data API with service-account credentials.
type Client struct {
	endpoint string
	client   *xhttp.Client
	tokens   oauth2.TokenSource
}

// New builds a Client from service-account JSON.
func New(ctx context.Context, credentialsJSON []byte, endpoint string, timeout time.Duration) (repository.AnalyticsClient, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, readScope)
	if err != nil {
		return nil, fmt.Errorf("analytics credentials: %w", err)
	}
	return &Client{
		endpoint: endpoint,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		tokens:   creds.TokenSource,
	}, nil
}

// NewWithTokenSource builds a Client with an explicit token source.
// Used by tests and by deployments with external credential plumbing.
func NewWithTokenSource(ts oauth2.TokenSource, endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		tokens:   ts,
	}
}

// Request/response wire shapes for the report endpoints.

type metric struct {
	Name string `json:"name"`
}

type stringFilter struct {
	MatchType     models.MatchType `json:"matchType"`
	Value         string           `json:"value"`
	CaseSensitive bool             `json:"caseSensitive"`
}

type dimensionFilter struct {
	FieldName    string       `json:"fieldName"`
	StringFilter stringFilter `json:"stringFilter"`
}

type filterExpression struct {
	Filter dimensionFilter `json:"filter"`
}

type runReportRequest struct {
	DateRanges      []models.DateRange `json:"dateRanges"`
	Metrics         []metric           `json:"metrics"`
	DimensionFilter *filterExpression  `json:"dimensionFilter,omitempty"`
}

type runRealtimeReportRequest struct {
	Metrics []metric `json:"metrics"`
}

// RunReport fetches the activeUsers metric for one property and date range.
func (c *Client) RunReport(ctx context.Context, propertyID string, dr models.DateRange, filter *models.DimensionFilter) (*models.Report, error) {
	req := runReportRequest{
		DateRanges:      []models.DateRange{dr},
		Metrics:         []metric{{Name: "activeUsers"}},
		DimensionFilter: buildFilterExpression(filter),
	}
	var rep models.Report
	path := fmt.Sprintf("/v1beta/properties/%s:runReport", propertyID)
	if err := c.postJSON(ctx, path, req, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// RunRealtimeReport fetches the current activeUsers metric for one property.
// The realtime endpoint accepts no date range and no string filters.
func (c *Client) RunRealtimeReport(ctx context.Context, propertyID string) (*models.Report, error) {
	req := runRealtimeReportRequest{
		Metrics: []metric{{Name: "activeUsers"}},
	}
	var rep models.Report
	path := fmt.Sprintf("/v1beta/properties/%s:runRealtimeReport", propertyID)
	if err := c.postJSON(ctx, path, req, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	tok, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("analytics token: %w", err)
	}
	err = c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.endpoint + path,
		Headers: map[string]string{
			"Authorization": "Bearer " + tok.AccessToken,
			"Content-Type":  "application/json",
		},
		Body: payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

func buildFilterExpression(f *models.DimensionFilter) *filterExpression {
	if f == nil {
		return nil
	}
	mt := f.MatchType
	if mt == "" {
		mt = models.MatchTypeUnspecified
	}
	return &filterExpression{
		Filter: dimensionFilter{
			FieldName: f.FieldName,
			StringFilter: stringFilter{
				MatchType:     mt,
				Value:         f.Value,
				CaseSensitive: f.CaseSensitive,
			},
		},
	}
}
