package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"catalog/internal/config"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the unique indexes and exit",
	Long:  "Ensures the partial unique indexes on Mongo, or runs the table migrations on SQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		b, err := openStore(ctx, config.AppEnv)
		if err != nil {
			return err
		}
		defer b.close()
		log.Printf("indexes ready for %s", config.AppEnv.DatabaseDriver)
		return nil
	},
}
