// Package service implements the place resolution pipeline: a small state
// machine that chains the search, geocode and unofficial clients until one
// of them yields coordinates.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"navermap_bot/internal/navermap/normalize"
	"navermap_bot/internal/navermap/transport"
	"navermap_bot/platform/apperr"
	"navermap_bot/platform/config"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"
)

// PlaceSearcher is the official keyword search.
type PlaceSearcher interface {
	Search(ctx context.Context, query string) (transport.OfficialItem, error)
}

// Geocoder resolves an address or free text to a point.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (transport.GeocodeItem, error)
}

// UnofficialSearcher is the undocumented search that already returns a full record.
type UnofficialSearcher interface {
	Search(ctx context.Context, query string) (transport.PlaceRecord, error)
}

// State is a step of the resolution pipeline.
type State string

const (
	StateStart            State = "start"
	StateStrategySelect   State = "strategy_select"
	StateOfficialSearch   State = "official_search"
	StateUnofficialSearch State = "unofficial_search"
	StateGeocodeFallback  State = "geocode_fallback"
	StateResolved         State = "resolved"
	StateFailed           State = "failed"
)

// Strategy names the place lookup selected by configuration.
type Strategy string

const (
	StrategyOfficial   Strategy = "official"
	StrategyUnofficial Strategy = "unofficial"
)

// Resolution is the outcome of one pipeline run.
type Resolution struct {
	Query    string
	Strategy Strategy
	Record   transport.PlaceRecord
	// Path lists every state visited, Start first.
	Path []State
}

// Service resolves free-text queries to a single place.
type Service struct {
	search        PlaceSearcher
	geocoder      Geocoder
	unofficial    UnofficialSearcher
	useUnofficial bool
	timeout       time.Duration
	log           *logger.Logger
	metrics       *metrics.Metrics
}

// New creates a resolver. unofficial may be nil when the flag is off.
func New(cfg config.ResolverConfig, search PlaceSearcher, geocoder Geocoder, unofficial UnofficialSearcher, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		search:        search,
		geocoder:      geocoder,
		unofficial:    unofficial,
		useUnofficial: cfg.UseUnofficialPlaceSearch(),
		timeout:       cfg.GetUpstreamTimeout(),
		log:           log,
		metrics:       m,
	}
}

// run carries the data threaded between states.
type run struct {
	query        string
	geocodeQuery string
	title        string
	record       transport.PlaceRecord
	lastErr      error
	path         []State
}

// Resolve runs the pipeline for query. On terminal failure the error is a
// KindNotFound *apperr.Error wrapping the last upstream failure.
func (s *Service) Resolve(ctx context.Context, query string) (Resolution, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Resolution{}, apperr.InvalidInput("query is empty").WithOp("service.Resolve")
	}

	r := &run{query: query}
	strategy := StrategyOfficial
	state := StateStart

	for state != StateResolved && state != StateFailed {
		r.path = append(r.path, state)
		switch state {
		case StateStart:
			state = StateStrategySelect
		case StateStrategySelect:
			if s.useUnofficial {
				strategy = StrategyUnofficial
				state = StateUnofficialSearch
			} else {
				state = StateOfficialSearch
			}
		case StateUnofficialSearch:
			state = s.unofficialSearch(ctx, r)
		case StateOfficialSearch:
			state = s.officialSearch(ctx, r)
		case StateGeocodeFallback:
			state = s.geocodeFallback(ctx, r)
		default:
			r.lastErr = fmt.Errorf("unknown state %q", state)
			state = StateFailed
		}
	}
	r.path = append(r.path, state)

	s.metrics.ObserveResolution(string(strategy), string(state))
	s.log.WithContext(ctx).Resolution(query, string(strategy), string(state), pathStrings(r.path))

	res := Resolution{Query: query, Strategy: strategy, Path: r.path}
	if state == StateFailed {
		return res, apperr.Wrap(apperr.KindNotFound, fmt.Sprintf("no place found for %q", query), r.lastErr).
			WithOp("service.Resolve")
	}
	res.Record = r.record
	return res, nil
}

func (s *Service) unofficialSearch(ctx context.Context, r *run) State {
	if s.unofficial == nil {
		r.lastErr = errors.New("unofficial search is not configured")
		return StateFailed
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	record, err := s.unofficial.Search(callCtx, r.query)
	if err != nil {
		s.log.UpstreamError("unofficial_search", err)
		r.lastErr = err
		return StateFailed
	}
	r.record = record
	return StateResolved
}

func (s *Service) officialSearch(ctx context.Context, r *run) State {
	// Every path out of here that needs geocoding titles the result with the user's own words.
	r.title = r.query
	r.geocodeQuery = r.query

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	item, err := s.search.Search(callCtx, r.query)
	if err != nil {
		s.log.UpstreamError("place_search", err)
		r.lastErr = err
		return StateGeocodeFallback
	}

	if item.HasDirectCoordinates() {
		r.record = normalize.Official(item)
		return StateResolved
	}

	if address := strings.TrimSpace(item.Address); address != "" {
		r.geocodeQuery = address
	}
	return StateGeocodeFallback
}

func (s *Service) geocodeFallback(ctx context.Context, r *run) State {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	item, err := s.geocoder.Geocode(callCtx, r.geocodeQuery)
	if err != nil {
		s.log.UpstreamError("geocode", err)
		r.lastErr = err
		return StateFailed
	}
	r.record = normalize.Geocode(item, r.title)
	return StateResolved
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func pathStrings(path []State) []string {
	out := make([]string, len(path))
	for i, st := range path {
		out[i] = string(st)
	}
	return out
}
