package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenlens/greenlens/internal/server"
	"github.com/greenlens/greenlens/internal/utils"
	"github.com/greenlens/greenlens/pkg/catalog"
	"github.com/greenlens/greenlens/pkg/dataset"
	"github.com/greenlens/greenlens/pkg/engine"
	"github.com/greenlens/greenlens/pkg/geoindex"
	"github.com/greenlens/greenlens/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		dataSource, _ := cmd.Flags().GetString("data")
		boundaries, _ := cmd.Flags().GetString("boundaries")
		cachePath, _ := cmd.Flags().GetString("cache")
		reloadMinutes, _ := cmd.Flags().GetInt("reload-interval")
		width, _ := cmd.Flags().GetFloat64("width")
		height, _ := cmd.Flags().GetFloat64("height")

		if dataSource == "" {
			dataSource = viper.GetString("data.source")
		}
		if boundaries == "" {
			boundaries = viper.GetString("data.boundaries")
		}
		if cachePath == "" {
			cachePath = viper.GetString("cache.path")
		}
		if dataSource == "" && cachePath == "" {
			return errors.New("no dataset: set --data (or data.source in the config) or --cache")
		}
		if boundaries == "" {
			return errors.New("no boundary file: set --boundaries or data.boundaries in the config")
		}

		cfg := server.Config{
			Addr:           listenAddr,
			DataSource:     dataSource,
			BoundarySource: boundaries,
			Username:       viper.GetString("auth.username"),
			Password:       viper.GetString("auth.password"),
			Width:          width,
			Height:         height,
			ReloadInterval: time.Duration(reloadMinutes) * time.Minute,
		}
		if cachePath == "" {
			return server.Run(cfg)
		}
		return serveWithCache(cfg, cachePath)
	},
}

// serveWithCache prefers the live dataset but falls back to the last
// imported snapshot when the upstream source is unreachable.
func serveWithCache(cfg server.Config, cachePath string) error {
	geo, err := geoindex.LoadBoundaries(cfg.BoundarySource)
	if err != nil {
		return err
	}
	geo.RegisterAliases(catalog.DefaultAliases)

	var rows []*dataset.Row
	if cfg.DataSource != "" {
		rows, err = server.LoadRows(cfg.DataSource, geo)
		if err != nil {
			utils.Log.Warnf("Live dataset unavailable (%v), trying cache", err)
		}
	}
	if rows == nil {
		db, err := storage.Open(cachePath)
		if err != nil {
			return err
		}
		rows, err = db.LoadRows(context.Background())
		db.Close()
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return errors.New("cache is empty: run import first")
		}
		utils.Log.Infof("Serving %d projects from cache %s", len(rows), cachePath)
		// Cached rows carry repaired coordinates already; reloading from a
		// dead source is pointless.
		cfg.ReloadInterval = 0
	}

	eng := engine.New(rows, geo, cfg.Width, cfg.Height)
	return server.New(cfg, eng, geo).Start(cfg.Addr)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("data", "", "Project CSV path or URL (default from config)")
	serveCmd.Flags().String("boundaries", "", "Country boundary TopoJSON/GeoJSON path or URL (default from config)")
	serveCmd.Flags().String("cache", "", "SQLite snapshot cache to fall back on")
	serveCmd.Flags().Int("reload-interval", 0, "Minutes between dataset reloads (0 to disable)")
	serveCmd.Flags().Float64("width", 960, "Initial map viewport width in pixels")
	serveCmd.Flags().Float64("height", 600, "Initial map viewport height in pixels")
}
