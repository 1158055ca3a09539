package repository

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"github.com/serjvanilla/go-overpass"

	"landprice_service/internal/domain/model"
)

// OverpassPlaceLookup finds amenities in OpenStreetMap through the Overpass API.
type OverpassPlaceLookup struct {
	client  *overpass.Client
	timeout time.Duration
}

func NewOverpassPlaceLookup(endpoint string, maxParallel int, timeout time.Duration) *OverpassPlaceLookup {
	httpClient := &http.Client{
		Timeout: timeout,
	}
	client := overpass.NewWithSettings(endpoint, maxParallel, httpClient)
	return &OverpassPlaceLookup{
		client:  &client,
		timeout: timeout,
	}
}

// NearbyPlaces returns nodes and ways matching the category's OSM filter within radiusMeters.
// Ways are reported at the centroid of their nodes.
func (r *OverpassPlaceLookup) NearbyPlaces(
	ctx context.Context,
	origin model.LocationPoint,
	radiusMeters int,
	category model.AmenityCategory,
) ([]model.Place, error) {
	query := buildAroundQuery(category.OSMFilter, radiusMeters, origin, r.timeout)

	result, err := r.executeQuery(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "overpass: nearby %s", category.ID)
	}
	return convertToPlaces(result), nil
}

func buildAroundQuery(filter string, radiusMeters int, origin model.LocationPoint, timeout time.Duration) string {
	around := fmt.Sprintf("(around:%d,%s)", radiusMeters, origin.String())
	return fmt.Sprintf(`[out:json][timeout:%d];
(
  node%s%s;
  way%s%s;
);
out body;
>;
out skel qt;`,
		max(1, int(timeout.Seconds())),
		filter, around,
		filter, around,
	)
}

// executeQuery runs the query on a separate goroutine since the client has no context support.
func (r *OverpassPlaceLookup) executeQuery(ctx context.Context, query string) (*overpass.Result, error) {
	type response struct {
		result overpass.Result
		err    error
	}
	done := make(chan response, 1)

	go func() {
		result, err := r.client.Query(query)
		done <- response{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "overpass query cancelled")
	case resp := <-done:
		if resp.err != nil {
			return nil, eris.Wrap(resp.err, "overpass query failed")
		}
		return &resp.result, nil
	}
}

// convertToPlaces orders elements by id so ties in distance resolve the same way every run.
// Nodes that only exist as way members are skipped.
func convertToPlaces(result *overpass.Result) []model.Place {
	members := make(map[int64]struct{})
	wayIDs := make([]int64, 0, len(result.Ways))
	for id, way := range result.Ways {
		wayIDs = append(wayIDs, id)
		for _, n := range way.Nodes {
			if n != nil {
				members[n.ID] = struct{}{}
			}
		}
	}

	nodeIDs := make([]int64, 0, len(result.Nodes))
	for id := range result.Nodes {
		if _, ok := members[id]; !ok {
			nodeIDs = append(nodeIDs, id)
		}
	}
	slices.Sort(nodeIDs)
	slices.Sort(wayIDs)

	places := make([]model.Place, 0, len(nodeIDs)+len(wayIDs))
	for _, id := range nodeIDs {
		node := result.Nodes[id]
		places = append(places, model.Place{Location: model.LocationPoint{Latitude: node.Lat, Longitude: node.Lon}})
	}

	for _, id := range wayIDs {
		way := result.Ways[id]
		var lat, lon float64
		count := 0
		for _, node := range way.Nodes {
			if node == nil {
				continue
			}
			lat += node.Lat
			lon += node.Lon
			count++
		}
		if count == 0 {
			// без геометрии
			continue
		}
		places = append(places, model.Place{Location: model.LocationPoint{
			Latitude:  lat / float64(count),
			Longitude: lon / float64(count),
		}})
	}

	return places
}
