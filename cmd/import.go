package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenlens/greenlens/pkg/catalog"
	"github.com/greenlens/greenlens/pkg/dataset"
	"github.com/greenlens/greenlens/pkg/geoindex"
	"github.com/greenlens/greenlens/pkg/repair"
	"github.com/greenlens/greenlens/pkg/storage"
)

// importCmd fetches the dataset, repairs coordinates and caches the result
// locally, so serve can come up without the upstream CSV.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Fetch the project dataset and cache it in a local SQLite file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataSource, _ := cmd.Flags().GetString("data")
		boundaries, _ := cmd.Flags().GetString("boundaries")
		cachePath, _ := cmd.Flags().GetString("cache")

		if dataSource == "" {
			dataSource = viper.GetString("data.source")
		}
		if boundaries == "" {
			boundaries = viper.GetString("data.boundaries")
		}
		if cachePath == "" {
			cachePath = viper.GetString("cache.path")
		}
		if dataSource == "" {
			return fmt.Errorf("no dataset: set --data or data.source in the config")
		}
		if cachePath == "" {
			cachePath = "greenlens.sqlite"
		}

		rows, err := dataset.Load(dataSource)
		if err != nil {
			return err
		}

		if boundaries != "" {
			geo, err := geoindex.LoadBoundaries(boundaries)
			if err != nil {
				return err
			}
			geo.RegisterAliases(catalog.DefaultAliases)
			stats := repair.Run(rows, geo)
			fmt.Printf("Repaired coordinates: %s\n", stats)
		}

		db, err := storage.Open(cachePath)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SaveRows(context.Background(), dataSource, rows); err != nil {
			return err
		}
		fmt.Printf("Imported %d projects into %s\n", len(rows), cachePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("data", "", "Project CSV path or URL (default from config)")
	importCmd.Flags().String("boundaries", "", "Boundary file used for coordinate repair (default from config)")
	importCmd.Flags().String("cache", "", "SQLite cache path (default greenlens.sqlite)")
}
