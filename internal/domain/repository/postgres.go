package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"landprice_service/internal/domain/model"
)

// PostGISPlaceLookup reads amenities from a local PostGIS table with the columns
// id, category (text) and geom (geometry(Point, 4326)).
type PostGISPlaceLookup struct {
	db    *sqlx.DB
	query string
}

// OpenPostGIS connects to databaseURL with the lib/pq driver.
func OpenPostGIS(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgis: connect")
	}
	return db, nil
}

func NewPostGISPlaceLookup(db *sqlx.DB, table string) (*PostGISPlaceLookup, error) {
	quoted, err := quoteTable(table)
	if err != nil {
		return nil, err
	}

	// $2 = longitude, $3 = latitude
	query := fmt.Sprintf(`
		SELECT ST_AsEWKB(geom) AS geom
		FROM %s
		WHERE category = $1
		AND geom IS NOT NULL
		AND ST_DWithin(geom::geography, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4)
		ORDER BY id`, quoted)

	return &PostGISPlaceLookup{db: db, query: query}, nil
}

type placeRow struct {
	Geom ewkb.Point `db:"geom"`
}

func (r *PostGISPlaceLookup) NearbyPlaces(
	ctx context.Context,
	origin model.LocationPoint,
	radiusMeters int,
	category model.AmenityCategory,
) ([]model.Place, error) {
	var rows []placeRow
	err := r.db.SelectContext(ctx, &rows, r.query,
		category.ID,
		origin.Longitude, origin.Latitude,
		radiusMeters,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgis: nearby %s", category.ID)
	}

	places := make([]model.Place, 0, len(rows))
	for _, row := range rows {
		if row.Geom.Point == nil {
			continue
		}
		places = append(places, model.Place{Location: model.LocationPoint{
			Latitude:  row.Geom.Y(),
			Longitude: row.Geom.X(),
		}})
	}
	return places, nil
}

// quoteTable quotes a "schema.table" or "table" name for safe interpolation.
func quoteTable(table string) (string, error) {
	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return "", eris.Errorf("postgis: invalid table name %q", table)
	}
	for i, p := range parts {
		if strings.TrimSpace(p) == "" {
			return "", eris.Errorf("postgis: invalid table name %q", table)
		}
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, "."), nil
}
