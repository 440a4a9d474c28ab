// Package places enriches map coordinates with named points of interest
// via reverse geocoding. Lookups go memory cache, then database, then the
// geocoder; the geocoder is strictly rate limited and every failure
// degrades to "no place" rather than an error on the simulation path.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gridfall/outbreak/internal/cache"
	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
)

// minRequestSpacing keeps us under the public Nominatim usage policy of one
// request per second.
const minRequestSpacing = 1100 * time.Millisecond

// Store is the persistence surface the resolver needs.
type Store interface {
	SavePlace(p *model.Place) error
	FindPlace(key string) (*model.Place, error)
}

// Resolver resolves coordinates to named places.
type Resolver struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      *cache.Places
	store      Store
	log        *slog.Logger

	mu       sync.Mutex
	lastCall time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

// New creates a resolver. store may be nil, in which case places live only
// in the memory cache.
func New(baseURL, userAgent string, c *cache.Places, store Store, log *slog.Logger) *Resolver {
	return &Resolver{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      c,
		store:      store,
		log:        log,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// nominatimResponse is the subset of the reverse geocode payload we keep.
type nominatimResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

// Resolve returns the place at the given coordinates, or nil when nothing
// is known and the geocoder cannot help. It never returns an error to the
// caller; enrichment is strictly optional.
func (r *Resolver) Resolve(ctx context.Context, at geo.Coordinates) *model.Place {
	key := geo.CacheKey(at)

	if p, ok := r.cache.Get(key); ok {
		return &p
	}

	if r.store != nil {
		if p, err := r.store.FindPlace(key); err == nil && p != nil {
			r.cache.Add(key, *p)
			return p
		}
	}

	p, err := r.fetch(ctx, at, key)
	if err != nil {
		r.log.Debug("reverse geocode failed", "key", key, "error", err)
		return nil
	}

	r.cache.Add(key, *p)
	if r.store != nil {
		if err := r.store.SavePlace(p); err != nil {
			r.log.Debug("persisting place failed", "key", key, "error", err)
		}
	}
	return p
}

func (r *Resolver) fetch(ctx context.Context, at geo.Coordinates, key string) (*model.Place, error) {
	r.throttle()

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(at.Lng, 'f', -1, 64))
	q.Set("zoom", "17")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building reverse request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse returned status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding reverse response: %w", err)
	}

	name := body.Name
	if name == "" {
		name = body.DisplayName
	}
	if name == "" {
		return nil, fmt.Errorf("reverse response had no name")
	}

	category := body.Type
	if category == "" {
		category = body.Category
	}

	return &model.Place{
		Key:      key,
		Name:     name,
		Category: category,
		Lat:      at.Lat,
		Lng:      at.Lng,
	}, nil
}

// throttle enforces the minimum spacing between geocoder calls.
func (r *Resolver) throttle() {
	r.mu.Lock()
	defer r.mu.Unlock()
	elapsed := r.now().Sub(r.lastCall)
	if elapsed < minRequestSpacing {
		r.sleep(minRequestSpacing - elapsed)
	}
	r.lastCall = r.now()
}
