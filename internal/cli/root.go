package cli

import (
	"github.com/spf13/cobra"

	"catalog/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog management backend",
	Long:  "Admin catalog management and storefront for categories and products",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
	// serve is the default action
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(indexesCmd)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}
