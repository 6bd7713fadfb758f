package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/odonto/clinica/internal/config"
	"github.com/odonto/clinica/internal/domain/account"
	"github.com/odonto/clinica/internal/domain/address"
	"github.com/odonto/clinica/internal/domain/anamnesis"
	"github.com/odonto/clinica/internal/domain/appointment"
	"github.com/odonto/clinica/internal/domain/contact"
	"github.com/odonto/clinica/internal/domain/patient"
	"github.com/odonto/clinica/internal/platform/auth"
	"github.com/odonto/clinica/internal/platform/db"
	"github.com/odonto/clinica/internal/platform/logging"
	"github.com/odonto/clinica/internal/platform/metrics"
	"github.com/odonto/clinica/internal/platform/middleware"
	"github.com/odonto/clinica/migrations"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "odonto-server",
		Short: "Dental clinic API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(userCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// loadConfig reads and validates the configuration and builds the logger
// every command shares.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}
	logger := logging.New(logging.Options{Format: cfg.LogFormat, Level: cfg.LogLevel, Dev: cfg.IsDev()})
	return cfg, logger, nil
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBSchema, cfg.DBMaxConns, cfg.DBMinConns)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, migrations.Files, cfg.DBSchema)
			fmt.Fprintf(cmd.OutOrStdout(), "Running migrations on schema: %s\n", cfg.DBSchema)

			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, migrations.Files, cfg.DBSchema).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printStatus(cmd, cfg.DBSchema, statuses)
			return nil
		},
	}
	cmd.AddCommand(statusCmd)

	return cmd
}

func printStatus(cmd *cobra.Command, schema string, statuses []db.MigrationStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Migration status for schema: %s\n", schema)
	fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(out, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status, at := "pending", ""
		if s.Applied {
			status = "applied"
			at = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, at)
	}
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a login account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var p account.CreateParams
			p.Username, _ = cmd.Flags().GetString("username")
			p.Email, _ = cmd.Flags().GetString("email")
			p.FirstName, _ = cmd.Flags().GetString("first-name")
			p.Password, _ = cmd.Flags().GetString("password")
			if p.Password == "" {
				p.Password = os.Getenv("ODONTO_USER_PASSWORD")
			}
			inactive, _ := cmd.Flags().GetBool("inactive")
			p.Inactive = inactive

			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			issuer := auth.NewIssuer([]byte(cfg.JWTSigningKey), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
			svc := account.NewService(account.NewRepo(pool), issuer, nil)
			u, err := svc.CreateUser(ctx, p)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %q (id %d).\n", u.Username, u.ID)
			return nil
		},
	}
	createCmd.Flags().String("username", "", "Login name")
	createCmd.Flags().String("email", "", "E-mail address")
	createCmd.Flags().String("first-name", "", "Display name")
	createCmd.Flags().String("password", "", "Password (defaults to $ODONTO_USER_PASSWORD)")
	createCmd.Flags().Bool("inactive", false, "Create the account disabled")
	_ = createCmd.MarkFlagRequired("username")

	cmd.AddCommand(createCmd)
	return cmd
}

func runServer() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := openPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Str("schema", cfg.DBSchema).Msg("connected to database")

	e, err := newServer(cfg, pool, logger, metrics.New())
	if err != nil {
		return err
	}

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("version", version).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer wires repositories, services and handlers onto a fresh echo
// instance. pool may be nil in tests that never reach the database.
func newServer(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger, m *metrics.Metrics) (*echo.Echo, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler(logger)

	// Routes are registered with a trailing slash; clients may omit it.
	e.Pre(echomw.AddTrailingSlash())

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(m.Middleware(middleware.StatusOf))

	issuer := auth.NewIssuer([]byte(cfg.JWTSigningKey), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	e.Use(auth.Authenticate(issuer, auth.PathSkipper("/api/auth/login/", "/api/auth/refresh/")))

	e.GET("/health/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": version})
	})
	var stats func() db.PoolStats
	if pool != nil {
		stats = db.PoolStatsFunc(pool)
	}
	e.GET("/health/db/", db.HealthHandler(pool, stats))
	e.GET("/metrics/", echo.WrapHandler(m.Handler()))

	tx := db.NewTransactor(pool)
	addressRepo := address.NewRepo(pool)
	contactRepo := contact.NewRepo(pool)
	anamnesisRepo := anamnesis.NewRepo(pool)
	appointmentRepo := appointment.NewRepo(pool)

	contactSvc := contact.NewService(contactRepo)
	patientSvc := patient.NewService(patient.NewRepo(pool), addressRepo, contactSvc, anamnesisRepo, appointmentRepo, tx)
	addressSvc := address.NewService(addressRepo)
	anamnesisSvc := anamnesis.NewService(anamnesisRepo, patientSvc)
	appointmentSvc := appointment.NewService(appointmentRepo, patientSvc, m, loc)
	accountSvc := account.NewService(account.NewRepo(pool), issuer, m)

	writes := auth.RequireAuthenticatedWrites()
	var coreWrites []echo.MiddlewareFunc
	if cfg.AuthProtectAllWrites {
		coreWrites = append(coreWrites, writes)
	}

	api := e.Group("/api")
	patient.NewHandler(patientSvc).RegisterRoutes(api, coreWrites...)
	appointment.NewHandler(appointmentSvc).RegisterRoutes(api, coreWrites...)
	address.NewHandler(addressSvc).RegisterRoutes(api, writes)
	contact.NewHandler(contactSvc).RegisterRoutes(api, writes)
	anamnesis.NewHandler(anamnesisSvc).RegisterRoutes(api, writes)
	account.NewHandler(accountSvc).RegisterRoutes(api, middleware.RateLimit(middleware.RateLimitConfig{
		PerMinute: cfg.LoginRateLimit,
	}))

	return e, nil
}
