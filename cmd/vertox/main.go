package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/vertox/portal/internal/auth"
	billingApp "github.com/vertox/portal/internal/billing/application"
	billingInfra "github.com/vertox/portal/internal/billing/infrastructure"
	billing "github.com/vertox/portal/internal/billing/interfaces"
	"github.com/vertox/portal/internal/content"
	"github.com/vertox/portal/internal/clock"
	"github.com/vertox/portal/internal/config"
	database "github.com/vertox/portal/internal/db"
	emailService "github.com/vertox/portal/internal/email"
	"github.com/vertox/portal/internal/history"
	"github.com/vertox/portal/internal/logging"
	"github.com/vertox/portal/internal/plans"
	"github.com/vertox/portal/internal/settings"
	"github.com/vertox/portal/internal/storage"
	"github.com/vertox/portal/internal/support"
	"github.com/vertox/portal/internal/translation"
	"github.com/vertox/portal/internal/updates"
	"github.com/vertox/portal/internal/user"
	"github.com/vertox/portal/internal/web"
)

func main() {
	app := &cli.Command{
		Name:  "vertox",
		Usage: "VertoX voice translation portal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP server",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "migrate",
						Usage: "Apply pending migrations before serving",
						Value: true,
					},
				},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations",
				Action: migrate,
			},
			quoteCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal("application error", "err", err)
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.NewLogger(os.Stderr, cfg.Log.Level), nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dbService, err := database.NewDBService(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("could not initialize database: %w", err)
	}
	defer dbService.Close()

	applied, err := database.Migrate(ctx, dbService.DB)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "count", len(applied), "files", applied)
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("missing configuration, update to start server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewDBService(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("could not initialize database: %w", err)
	}
	defer dbService.Close()

	if cmd.Bool("migrate") {
		applied, err := database.Migrate(ctx, dbService.DB)
		if err != nil {
			return err
		}
		if len(applied) > 0 {
			logger.Info("migrations applied", "files", applied)
		}
	}

	clk := clock.NewSystem()
	mailer := emailService.NewEmailService(cfg.Email, logger)
	defer mailer.Close()

	historyService := history.NewService(history.NewRepository(dbService.DB), clk, logger)

	avatars := storage.NewDiskStore(cfg.Storage.AvatarsDir, cfg.Storage.PublicBaseURL)
	userService := user.NewUserService(user.NewUserRepository(dbService.DB), mailer, avatars, clk, logger,
		history.SeedHook(historyService))

	sessionManager := auth.NewSessionManager()
	authService := auth.NewAuthService(
		auth.NewTwoFactorRepository(dbService.DB),
		userService,
		sessionManager,
		auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		mailer,
		auth.NewAuthenticator(cfg.Auth.Issuer),
		clk,
		logger,
	)
	limiter := auth.NewIPRateLimiter(cfg.Auth.LoginRatePerMinute)

	plansService := plans.NewService(plans.NewSalesRepository(dbService.DB), mailer, cfg.Email.SalesInbox, clk, logger)
	paymentService := billingApp.NewPaymentMethodService(billingInfra.NewPaymentMethodRepository(dbService.DB), logger)

	updatesService, err := updates.NewService(cfg.App.Version)
	if err != nil {
		return err
	}

	devices := translation.NewDevices(cfg.App.PairingDelay, logger)
	defer devices.Close()
	console := translation.NewConsole(historyService, clk, logger)
	devices.OnConnected(console.DeviceConnected)

	library, err := content.Load()
	if err != nil {
		return err
	}
	supportService := support.NewService(support.NewRepository(dbService.DB), mailer, cfg.Email.SupportInbox, clk, logger)

	translations, err := web.LoadTranslations()
	if err != nil {
		return err
	}
	en, ok := translations.Locale("en")
	if !ok {
		return errors.New("missing english interface strings")
	}
	shell, err := web.NewShell(en, cfg.App.Version, logger)
	if err != nil {
		return err
	}

	server := NewServer(Handlers{
		Auth:         auth.NewHandler(authService, cfg.Auth.SecureCookies, logger),
		AuthService:  authService,
		Google:       auth.NewGoogleOAuth(cfg.Auth.Google, authService, cfg.Server.PublicURL, cfg.Auth.SecureCookies, logger),
		User:         user.NewHandler(userService, logger),
		Plans:        plans.NewHandler(plansService, logger, web.RespondJSON, web.RespondError),
		Billing:      billing.NewPaymentMethodHandler(paymentService, logger, web.RespondJSON, web.RespondError),
		History:      history.NewHandler(historyService, logger, web.RespondJSON, web.RespondError),
		Updates:      updates.NewHandler(updatesService, web.RespondJSON, web.RespondError),
		Translation:  translation.NewHandler(console, devices, web.RespondJSON, web.RespondError),
		Settings:     settings.NewHandler(settings.NewService(settings.NewRepository(dbService.DB), logger), logger, web.RespondJSON, web.RespondError),
		Support:      support.NewHandler(supportService, logger, web.RespondJSON, web.RespondError),
		Content:      content.NewHandler(library, web.RespondJSON, web.RespondError),
		Shell:        shell,
		Translations: translations,
		Avatars:      avatars.Handler(),
		Limiter:      limiter,
		DB:           dbService,
	}, logger)
	server.RegisterRoutes()

	scheduler, err := StartScheduler(sessionManager, userService, limiter, logger)
	if err != nil {
		return fmt.Errorf("scheduler didn't start: %w", err)
	}
	defer scheduler.Stop()

	if cfg.Server.PprofAddr != "" {
		go func() {
			logger.Info("starting pprof", "addr", cfg.Server.PprofAddr)
			if err := http.ListenAndServe(cfg.Server.PprofAddr, pprofMux()); err != nil {
				logger.Warn("pprof stopped", "err", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", httpServer.Addr, "version", cfg.App.Version)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
