package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trailforge/routegraph/store"
)

// newExportCmd re-exports persisted recommendations as GeoJSON, the
// direct counterpart of the downstream extract step.
func newExportCmd() *cobra.Command {
	var (
		dbPath  string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored recommendations to a GeoJSON FeatureCollection",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)

			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			rows, err := st.ReadAll(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("routes read", "count", len(rows))

			features := make([]map[string]any, 0, len(rows))
			for _, r := range rows {
				var geom json.RawMessage
				if err := json.Unmarshal([]byte(r.Path), &geom); err != nil {
					log.Warn("route skipped, bad geometry", "route", r.Name, "err", err)
					continue
				}
				features = append(features, map[string]any{
					"type": "Feature",
					"properties": map[string]any{
						"route_uuid":                 r.UUID,
						"route_name":                 r.Name,
						"route_score":                r.Score,
						"route_shape":                r.Shape,
						"recommended_length_km":      r.LengthKm,
						"recommended_elevation_gain": r.Gain,
						"trail_count":                r.Trails,
						"created_at":                 r.CreatedAt,
					},
					"geometry": geom,
				})
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			defer f.Close()

			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			if err := enc.Encode(map[string]any{
				"type":     "FeatureCollection",
				"features": features,
			}); err != nil {
				return err
			}
			log.Info("export complete", "out", outPath, "features", len(features))
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "routes.db", "input SQLite database")
	cmd.Flags().StringVar(&outPath, "out", "routes.geojson", "output GeoJSON file")
	return cmd
}
