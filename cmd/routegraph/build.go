package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/geojson"
	"github.com/trailforge/routegraph/pipeline"
	"github.com/trailforge/routegraph/store"
)

// newBuildCmd wires trails.geojson + config → pipeline → SQLite.
func newBuildCmd() *cobra.Command {
	var (
		trailsPath string
		dbPath     string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the routing graph and write route recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(trailsPath)
			if err != nil {
				return fmt.Errorf("opening trails: %w", err)
			}
			defer f.Close()

			trails, excluded, err := geojson.LoadTrails(f)
			if err != nil {
				return err
			}
			for _, ge := range excluded {
				log.Warn("trail skipped at ingestion", "trail", ge.TrailID, "reason", ge.Reason)
			}
			log.Info("trails loaded", "count", len(trails), "skipped", len(excluded))

			res, err := pipeline.Run(cmd.Context(), trails, cfg, pipeline.WithLogger(log))
			if err != nil {
				return err
			}
			log.Info("run complete",
				"recommendations", len(res.Recommendations),
				"empty_patterns", len(res.Report.EmptyPatterns),
				"budget_exceeded", len(res.Report.BudgetExceeded),
			)

			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.WriteRecommendations(cmd.Context(), res.Recommendations, res.Graph, time.Now()); err != nil {
				return err
			}
			log.Info("recommendations written", "db", dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&trailsPath, "trails", "trails.geojson", "input trail FeatureCollection")
	cmd.Flags().StringVar(&dbPath, "db", "routes.db", "output SQLite database")
	return cmd
}

// loadConfig reads the YAML/env configuration into a pipeline.Config.
func loadConfig(cmd *cobra.Command) (pipeline.Config, error) {
	v := viper.New()
	v.SetConfigName("routegraph")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix("ROUTEGRAPH")
	v.AutomaticEnv()

	v.SetDefault("snap_tolerance_m", pipeline.DefaultSnapTolerance)
	v.SetDefault("min_segment_length_m", pipeline.DefaultMinSegmentLength)
	v.SetDefault("overlap_threshold_pct", pipeline.DefaultOverlapThresholdPct)
	v.SetDefault("search_budget", pipeline.DefaultSearchBudget)

	if err := v.ReadInConfig(); err != nil {
		// Missing file falls back to defaults; a broken file does not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return pipeline.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := pipeline.Config{
		SnapTolerance:       v.GetFloat64("snap_tolerance_m"),
		MinSegmentLength:    v.GetFloat64("min_segment_length_m"),
		OverlapThresholdPct: v.GetFloat64("overlap_threshold_pct"),
		SearchBudget:        v.GetInt("search_budget"),
		MaxCycleEdges:       v.GetInt("max_cycle_edges"),
		KPaths:              v.GetInt("k_paths"),
		MaxStartNodes:       v.GetInt("max_start_nodes"),
		Exhaustive:          v.GetBool("exhaustive_cycles"),
		MaxAnchors:          v.GetInt("lollipop.max_anchors"),
		MaxDestinations:     v.GetInt("lollipop.max_destinations"),
		MaxPathsPerAnchor:   v.GetInt("lollipop.max_paths_per_anchor"),
		OutboundMinFrac:     v.GetFloat64("lollipop.outbound_min_frac"),
		OutboundMaxFrac:     v.GetFloat64("lollipop.outbound_max_frac"),
	}

	var raw []struct {
		Name         string  `mapstructure:"name"`
		Shape        string  `mapstructure:"shape"`
		DistanceKm   float64 `mapstructure:"distance_km"`
		GainM        float64 `mapstructure:"gain_m"`
		TolerancePct float64 `mapstructure:"tolerance_pct"`
	}
	if err := v.UnmarshalKey("patterns", &raw); err != nil {
		return pipeline.Config{}, fmt.Errorf("parsing patterns: %w", err)
	}
	for _, p := range raw {
		shape, err := core.ParseShape(p.Shape)
		if err != nil {
			return pipeline.Config{}, fmt.Errorf("pattern %q: %w", p.Name, err)
		}
		cfg.Patterns = append(cfg.Patterns, core.RoutePattern{
			Name:           p.Name,
			Shape:          shape,
			TargetDistance: p.DistanceKm * 1000,
			TargetGain:     p.GainM,
			TolerancePct:   p.TolerancePct,
		})
	}
	return cfg, nil
}
