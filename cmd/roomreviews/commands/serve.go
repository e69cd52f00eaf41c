package commands

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpserver "roomreviews/internal/adapters/http_server"
	"roomreviews/internal/adapters/observability"
	"roomreviews/internal/app"
	"roomreviews/internal/shared"
)

var serveConfig *string

func init() {
	serveConfig = serveCmd.Flags().String("config", "", "optional YAML config overlaid on the environment")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--config <path>]",
	Short: "Runs the scrape service: POST /v1/scrape, /healthz and /metrics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			cfg shared.Config
			err error
		)
		if *serveConfig != "" {
			cfg, err = shared.LoadFile(*serveConfig)
		} else {
			cfg, err = shared.Load()
		}
		if err != nil {
			return err
		}
		setupLogging(cfg)
		observability.Serve()

		feed, err := buildFeed(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		orch := app.NewOrchestrator(feed, cfg.Workers)

		srv := httpserver.New(cfg.ScrapeTimeout.Std())
		reg := observability.InitRegistry()
		srv.Mount("/metrics", observability.MetricsHandler(reg))
		srv.MountHandlers(&httpserver.Handlers{
			Runner:          orch,
			MaxRooms:        cfg.MaxRooms,
			DefaultMaxItems: cfg.MaxItems,
		})

		httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

		go func() {
			<-cmd.Context().Done()
			shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shCtx); err != nil {
				log.Error().Err(err).Msg("shutdown failed")
			}
		}()

		log.Info().Str("addr", cfg.HTTPAddr).Msg("scrape service listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}
