package cli

import (
	"context"

	"github.com/spf13/cobra"

	"catalog/internal/assets"
	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/observability"
	"catalog/internal/pipeline"
	"catalog/internal/query"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin and storefront HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.AppEnv

	b, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()
	withCategoryCache(ctx, b, cfg)

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics(nil)
	am := assets.NewManager(storage, assets.WithMaxSize(cfg.MaxUploadBytes), assets.WithRecorder(metrics))

	h := handlers.New(handlers.Deps{
		Pipeline: pipeline.New(b.store, am, pipeline.WithRecorder(metrics)),
		Query:    query.New(b.store),
		Assets:   am,
		Sessions: handlers.NewSessionStore(cfg.SessionSecret, int(cfg.SessionMaxAge.Seconds()), cfg.SecureCookies),
		DB:       b.db,
		Timeout:  cfg.DBTimeout,
	})

	r := handlers.NewRouter(h)
	return r.Run(":" + cfg.Port)
}
