package ingest

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/datastore"
	"github.com/mediplant/mediplant-go/internal/importer"
)

// Command creates the import command which loads plant entries from a CSV file.
func Command(settings *conf.Settings) *cobra.Command {
	var trusted bool

	cmd := &cobra.Command{
		Use:   "import [input.csv]",
		Short: "Import plant entries from a CSV file",
		Long:  "Load plant entries into the store. Imported entries start pending unless --trusted marks them verified.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(settings, args[0], trusted)
		},
	}

	cmd.Flags().BoolVar(&trusted, "trusted", false, "Mark imported entries as verified")
	cmd.Flags().BoolVar(&settings.Output.SQLite.Enabled, "sqlite", viper.GetBool("output.sqlite.enabled"), "Store data in SQLite")
	cmd.Flags().StringVar(&settings.Output.SQLite.Path, "dbpath", viper.GetString("output.sqlite.path"), "Path to SQLite database file")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func runImport(settings *conf.Settings, path string, trusted bool) error {
	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			fmt.Printf("error closing datastore: %v\n", err)
		}
	}()

	result, err := importer.New(ds).ImportFile(path, trusted)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d plants, skipped %d rows\n", result.Imported, result.Skipped)
	return nil
}
