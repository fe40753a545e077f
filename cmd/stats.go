package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenlens/greenlens/pkg/storage"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints per-country statistics from the cached dataset.",
	Long:  "Prints per-country statistics from the cached dataset.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cachePath, _ := cmd.Flags().GetString("cache")
		if cachePath == "" {
			cachePath = viper.GetString("cache.path")
		}
		if cachePath == "" {
			cachePath = "greenlens.sqlite"
		}

		db, err := storage.Open(cachePath)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("cache file not found: %s", cachePath)
			}
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No data in the cache to generate stats. Run import first.")
			return nil
		}

		if last, err := db.LastImport(context.Background()); err == nil && last != nil {
			fmt.Printf("Last import: %s (%d rows from %s)\n\n",
				last.ImportedAt.Format("2006-01-02 15:04:05"), last.RowCount, last.Source)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "COUNTRY\tPROJECTS\t")

		var total int
		for _, s := range stats {
			country := s.Country
			if country == "" {
				country = "(unknown)"
			}
			fmt.Fprintf(w, "%s\t%d\t\n", country, s.Count)
			total += s.Count
		}

		fmt.Fprintln(w, " \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t\n", total)

		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().String("cache", "", "SQLite cache path (default greenlens.sqlite)")
}
