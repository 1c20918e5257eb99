package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/trailforge/routegraph/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS route_recommendations (
	route_uuid                 TEXT PRIMARY KEY,
	route_name                 TEXT NOT NULL,
	route_path                 TEXT NOT NULL,
	route_score                REAL NOT NULL,
	route_shape                TEXT NOT NULL,
	recommended_length_km      REAL NOT NULL,
	recommended_elevation_gain REAL NOT NULL,
	trail_count                INTEGER NOT NULL,
	created_at                 TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_route_recommendations_score
	ON route_recommendations (route_score DESC);
`

// Store wraps the SQLite handle for recommendation rows.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ensuring schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the handle.
func (s *Store) Close() error { return s.db.Close() }

// WriteRecommendations inserts all rows in one transaction. The route
// geometry is serialized as a GeoJSON MultiLineString built from the
// snapshot's 3D edge points.
func (s *Store) WriteRecommendations(ctx context.Context, recs []core.RouteRecommendation, g *core.GraphSnapshot, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO route_recommendations (
			route_uuid, route_name, route_path, route_score, route_shape,
			recommended_length_km, recommended_elevation_gain, trail_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	created := now.UTC().Format(time.RFC3339)
	for _, rec := range recs {
		path, err := routePath(rec, g)
		if err != nil {
			return fmt.Errorf("store: route %s: %w", rec.UUID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.UUID, rec.Name, path, rec.Score, rec.Shape.String(),
			rec.Distance/1000, rec.Gain, rec.TrailCount, created,
		); err != nil {
			return fmt.Errorf("store: insert %s: %w", rec.UUID, err)
		}
	}
	return tx.Commit()
}

// Row is one persisted recommendation as read back for export.
type Row struct {
	UUID      string
	Name      string
	Path      string // GeoJSON MultiLineString
	Score     float64
	Shape     string
	LengthKm  float64
	Gain      float64
	Trails    int
	CreatedAt string
}

// ReadAll returns every row ordered by descending score.
func (s *Store) ReadAll(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT route_uuid, route_name, route_path, route_score, route_shape,
		       recommended_length_km, recommended_elevation_gain, trail_count, created_at
		FROM route_recommendations
		ORDER BY route_score DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.UUID, &r.Name, &r.Path, &r.Score, &r.Shape,
			&r.LengthKm, &r.Gain, &r.Trails, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// routePath serializes the 3D geometry of one recommendation.
func routePath(rec core.RouteRecommendation, g *core.GraphSnapshot) (string, error) {
	coords := make([][][]float64, 0, len(rec.Edges))
	for _, eid := range rec.Edges {
		e := g.Edge(eid)
		if e == nil {
			continue
		}
		part := make([][]float64, len(e.Points))
		for i, p := range e.Points {
			part[i] = []float64{p.Lon, p.Lat, p.Elev}
		}
		coords = append(coords, part)
	}
	b, err := json.Marshal(map[string]any{
		"type":        "MultiLineString",
		"coordinates": coords,
	})
	return string(b), err
}
