package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"screenshot-mirror/core/loader"
	"screenshot-mirror/core/logger"
	"screenshot-mirror/core/middleware/auth"
	"screenshot-mirror/core/middleware/rayid"
	"screenshot-mirror/core/reconcile"
	"screenshot-mirror/core/scheduler"
	"screenshot-mirror/feature/mirror"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "screenshot-mirror/docs/swagger"
)

// @title Screenshot Mirror API
// @version 1.0
// @description Triggers and inspects passes mirroring a drive folder into a repository.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var serveNoSchedule bool

// serveCmd runs passes on an interval and exposes them over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run passes on a schedule and serve the mirror API",
	Long: `Starts the HTTP server, runs a pass immediately and then every
sync.interval_seconds. Passes can also be triggered with POST /mirror/sync.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := cfg.Server.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 2. Build the pass pipeline
		p, err := buildPipeline(ctx, cfg, logg)
		if err != nil {
			return err
		}
		svc := mirror.NewService(p.run, p.ledger, logg)

		// 3. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(mirror.NewFeature(svc, logg))

		// RayID must be first to trace everything.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		if cfg.Server.Swagger {
			app.Get("/swagger/*", swagger.HandlerDefault)
		}

		app.Use(auth.New(auth.Config{
			ApiKey: cfg.Server.ApiKey,
			Skip: func(c *fiber.Ctx) bool {
				return cfg.Server.Swagger && strings.HasPrefix(c.Path(), "/swagger")
			},
		}))

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// 4. Start Server
		serverErr := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()))
			serverErr <- app.Listen(cfg.Server.Addr())
		}()

		// 5. Start Scheduler
		schedDone := make(chan struct{})
		go func() {
			defer close(schedDone)
			if serveNoSchedule {
				return
			}
			interval := cfg.Sync.Interval()
			logg.Info("Scheduler started", zap.Duration("interval", interval))
			_ = scheduler.Run(ctx, clockwork.NewRealClock(), interval, func(ctx context.Context) {
				status, shared, err := svc.Trigger(ctx)
				switch {
				case errors.Is(err, reconcile.ErrPassActive):
					logg.Info("Scheduled pass skipped, another pass holds the lock")
				case err != nil:
					logg.Error("Scheduled pass failed", zap.Error(err))
				case status != nil && status.Report != nil:
					logg.Info("Scheduled pass done",
						zap.Bool("shared", shared),
						zap.Int("deleted", status.Report.Summary.Deleted),
						zap.Int("added", status.Report.Summary.Added),
						zap.Int("failed", status.Report.Summary.Failed),
					)
				}
			})
		}()

		// 6. Graceful Shutdown
		select {
		case <-ctx.Done():
		case err := <-serverErr:
			if err != nil {
				stop()
				<-schedDone
				return err
			}
		}
		logg.Info("Shutting down server...")
		stop()
		if err := app.Shutdown(); err != nil {
			logg.Warn("Server shutdown failed", zap.Error(err))
		}
		// Waits for an in-flight scheduled pass to save its ledger.
		<-schedDone
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoSchedule, "no-schedule", false, "Only run passes triggered over HTTP")
	RootCmd.AddCommand(serveCmd)
}
