package main

import (
	"fmt"

	"github.com/jonathan/growth-compass/internal/catalog"
	"github.com/jonathan/growth-compass/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCatalogCmd = &cobra.Command{
	Use:   "validate-catalog",
	Short: "Validate a resource catalog file",
	Long: `Checks a catalog JSON file against the resource schema and the id uniqueness rule.
With --schema the file is first checked against that schema file as well.`,
	RunE: runValidateCatalog,
}

var (
	validateCatalogFile   string
	validateCatalogSchema string
)

func init() {
	validateCatalogCmd.Flags().StringVarP(&validateCatalogFile, "file", "f", "", "Path to catalog JSON file (required)")
	validateCatalogCmd.Flags().StringVarP(&validateCatalogSchema, "schema", "s", "", "Path to an additional JSON Schema file")

	if err := validateCatalogCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCatalogCmd)
}

func runValidateCatalog(cmd *cobra.Command, _ []string) error {
	if validateCatalogSchema != "" {
		if err := schemas.ValidateJSON(validateCatalogSchema, validateCatalogFile); err != nil {
			return err
		}
	}

	cat, err := catalog.Load(validateCatalogFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Catalog is valid: %d resources (%d courses, %d tools)\n",
		cat.Size(), len(cat.Courses), len(cat.Tools))
	return nil
}
