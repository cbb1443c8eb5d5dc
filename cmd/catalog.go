package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/collection-log-advisor/internal/catalog"
	"github.com/Tiliavir/collection-log-advisor/internal/remote"
)

var (
	catalogRatesFile       string
	catalogActivityMapFile string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the item catalog and default completion rates",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the catalog from the spreadsheet CSV exports",
	Args:  cobra.NoArgs,
	RunE:  runCatalogImport,
}

var catalogFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the catalog from the configured backend",
	Args:  cobra.NoArgs,
	RunE:  runCatalogFetch,
}

func init() {
	catalogImportCmd.Flags().StringVar(&catalogRatesFile, "rates", "completion_rates.csv", "Completion rates CSV")
	catalogImportCmd.Flags().StringVar(&catalogActivityMapFile, "activity-map", "activity_map.csv", "Activity map CSV")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogFetchCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	rates, err := os.Open(catalogRatesFile)
	if err != nil {
		return err
	}
	defer rates.Close()
	activityMap, err := os.Open(catalogActivityMapFile)
	if err != nil {
		return err
	}
	defer activityMap.Close()

	c, warnings, err := catalog.ImportCSV(rates, activityMap)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}
	if err := catalog.Save(cmd.Context(), store, c); err != nil {
		exitStorage(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d activities with %d items.\n", len(c.Activities), c.ItemCount())
	return nil
}

func runCatalogFetch(cmd *cobra.Command, args []string) error {
	client := remote.NewClient(cmd.Context(), cfg.Remote)
	c, err := client.FetchCatalog(cmd.Context())
	if err != nil {
		return err
	}
	if err := catalog.Save(cmd.Context(), store, c); err != nil {
		exitStorage(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d activities with %d items.\n", len(c.Activities), c.ItemCount())
	return nil
}
