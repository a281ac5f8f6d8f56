package planner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/departwise/departwise/internal/geo"
	"github.com/departwise/departwise/internal/routing"
	"github.com/departwise/departwise/internal/timewindow"
)

// RouteQueryResult is the outcome of one per-hour routing query. Exactly one
// of Route and Err is set.
type RouteQueryResult struct {
	Hour     int
	DepartAt time.Time
	Route    *routing.Route
	Err      error
}

// OK reports whether the query produced a route.
func (r RouteQueryResult) OK() bool {
	return r.Err == nil && r.Route != nil
}

// queryRouteAtHour issues one traffic-aware routing query departing at hour.
func (s *Service) queryRouteAtHour(ctx context.Context, from, to geo.Coordinate, window timewindow.TimeWindow, hour int, now time.Time) RouteQueryResult {
	departAt := window.DepartureInstant(hour, now)
	result := RouteQueryResult{Hour: hour, DepartAt: departAt}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	resp, err := s.routing.CalculateRoute(ctx, routing.DirectionsRequest{
		Origin:      from,
		Destination: to,
		DepartAt:    &departAt,
		Traffic:     true,
	})
	switch {
	case err != nil:
		result.Err = err
	case resp == nil || len(resp.Routes) == 0:
		result.Err = routing.ErrNoRouteFound
	default:
		result.Route = &resp.Routes[0]
	}
	return result
}

// queryWindow runs queryRouteAtHour for every hour in window with bounded
// concurrency. Results are returned in ascending hour order regardless of
// completion order. Failed hours are logged and kept with Err set.
func (s *Service) queryWindow(ctx context.Context, from, to geo.Coordinate, window timewindow.TimeWindow, now time.Time) []RouteQueryResult {
	hours := window.Hours()
	results := make([]RouteQueryResult, len(hours))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)
	for i, hour := range hours {
		g.Go(func() error {
			results[i] = s.queryRouteAtHour(ctx, from, to, window, hour, now)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if !r.OK() {
			s.logger.Debug().Err(r.Err).
				Int("hour", r.Hour).
				Time("depart_at", r.DepartAt).
				Msg("skipping hour, routing query failed")
		}
	}
	return results
}
