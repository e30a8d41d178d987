package cmd

import (
	"fmt"

	catalogx "github.com/kejionglee/iphall-landing-page/agent/catalog"
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the quotationlist table and load tariffs into an empty one",
	RunE: func(cmd *cobra.Command, args []string) error {
		records := catalogx.SampleRecords()
		if seedFile != "" {
			var err error
			if records, err = catalogx.LoadRecordsFile(seedFile); err != nil {
				return err
			}
		}

		provider, err := openPostgresProvider()
		if err != nil {
			return err
		}
		defer provider.Close()

		if err := provider.CreateSchema(cmd.Context()); err != nil {
			return err
		}
		n, err := provider.Seed(cmd.Context(), records)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "quotationlist already populated, nothing inserted")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d tariff rows\n", n)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML tariff file (defaults to the bundled sample)")
	rootCmd.AddCommand(seedCmd)
}
