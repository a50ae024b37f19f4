// Package brandconfig resolves the brand -> analytics property mapping
// from a remote document store, with a short document cache and a
// last-known fallback so config outages do not take the service down.
package brandconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"BrandPulse/internal/domain/models"
	"BrandPulse/internal/domain/repository"
	"BrandPulse/pkg/cache"
	xhttp "BrandPulse/pkg/http"
	"BrandPulse/pkg/logger"
)

const (
	propertiesDoc    = "brand-properties"
	ga4PropertiesDoc = "brand-ga4-properties"
)

// Options configure the Provider.
type Options struct {
	BaseURL    string
	Collection string
	CacheTTL   time.Duration
	Timeout    time.Duration
}

// Provider fetches two documents from the config store and merges them
// into one brand map. The merged JSON is cached in a BytesCache; a
// last-known copy is kept in memory for fallback when both the remote
// store and the cache are unavailable.
type Provider struct {
	opts   Options
	client *xhttp.Client
	cache  cache.BytesCache
	log    *logger.Logger

	mu        sync.RWMutex
	lastKnown map[string]models.BrandConfig
}

var _ repository.ConfigProvider = (*Provider)(nil)

func New(opts Options, bc cache.BytesCache, log *logger.Logger) *Provider {
	return &Provider{
		opts:   opts,
		client: xhttp.NewClient(xhttp.WithTimeout(opts.Timeout)),
		cache:  bc,
		log:    log,
	}
}

// brandDoc is the display/property document. ga4Doc carries the upstream
// property ids and optional filters, keyed by the same brand names.
type brandDoc struct {
	Brands map[string]struct {
		Name  string `json:"name"`
		Image string `json:"image"`
		Group string `json:"group"`
	} `json:"brands"`
}

type ga4Doc struct {
	Brands map[string]struct {
		PropertyID string                  `json:"property_id"`
		Filter     *models.DimensionFilter `json:"filter"`
	} `json:"brands"`
}

const cacheKey = "brandconfig:merged"

// Brands returns the current brand map. bypassCache skips both the
// document cache and the cached merge, forcing a remote round trip.
func (p *Provider) Brands(ctx context.Context, bypassCache bool) (map[string]models.BrandConfig, error) {
	if !bypassCache {
		if b, ok, err := p.cache.GetBytes(cacheKey); err == nil && ok {
			var m map[string]models.BrandConfig
			if err := json.Unmarshal(b, &m); err == nil {
				p.remember(m)
				return m, nil
			}
			p.log.Warn("brandconfig: dropping corrupt cache entry")
			_ = p.cache.Delete(cacheKey)
		}
	}

	m, err := p.fetchAndMerge(ctx)
	if err != nil {
		p.log.Error("brandconfig: remote fetch failed", logger.Error(err))
		if last := p.lastKnownCopy(); last != nil {
			return last, nil
		}
		if defaults := builtinBrands(); len(defaults) > 0 {
			p.log.Warn("brandconfig: serving built-in defaults")
			return defaults, nil
		}
		return nil, models.ErrConfigUnavailable
	}

	if b, err := json.Marshal(m); err == nil {
		if err := p.cache.SetBytes(cacheKey, b, p.opts.CacheTTL); err != nil {
			p.log.Warn("brandconfig: cache write failed", logger.Error(err))
		}
	}
	p.remember(m)
	return m, nil
}

func (p *Provider) fetchAndMerge(ctx context.Context) (map[string]models.BrandConfig, error) {
	var display brandDoc
	if err := p.fetchDoc(ctx, propertiesDoc, &display); err != nil {
		return nil, err
	}
	var ga4 ga4Doc
	if err := p.fetchDoc(ctx, ga4PropertiesDoc, &ga4); err != nil {
		return nil, err
	}

	merged := make(map[string]models.BrandConfig, len(display.Brands))
	for key, d := range display.Brands {
		g, ok := ga4.Brands[key]
		if !ok || g.PropertyID == "" {
			p.log.Warn("brandconfig: brand has no analytics property, skipping",
				logger.String("brand", key))
			continue
		}
		name := d.Name
		if name == "" {
			name = key
		}
		merged[key] = models.BrandConfig{
			Name:       name,
			PropertyID: g.PropertyID,
			Image:      d.Image,
			Group:      d.Group,
			Filter:     g.Filter,
		}
	}
	if len(merged) == 0 {
		return nil, fmt.Errorf("merged brand map is empty")
	}
	return merged, nil
}

func (p *Provider) fetchDoc(ctx context.Context, doc string, dest interface{}) error {
	url := fmt.Sprintf("%s/%s/%s", p.opts.BaseURL, p.opts.Collection, doc)
	if err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    url,
	}, dest); err != nil {
		return fmt.Errorf("fetch %s: %w", doc, err)
	}
	return nil
}

func (p *Provider) remember(m map[string]models.BrandConfig) {
	p.mu.Lock()
	p.lastKnown = m
	p.mu.Unlock()
}

func (p *Provider) lastKnownCopy() map[string]models.BrandConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastKnown
}
