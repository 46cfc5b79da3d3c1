package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/volunteerhq/rosterd/internal/config"
	"github.com/volunteerhq/rosterd/pkg/api"
	"github.com/volunteerhq/rosterd/pkg/clients/genclient"
	"github.com/volunteerhq/rosterd/pkg/clients/gmailclient"
	"github.com/volunteerhq/rosterd/pkg/core/services"
	"github.com/volunteerhq/rosterd/pkg/export"
	"github.com/volunteerhq/rosterd/pkg/postgres"
	"github.com/volunteerhq/rosterd/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	database *postgres.DB
	logger   *zap.Logger
	ctx      context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rosterd",
		Short: "rosterd - volunteer and event management service",
		Long:  `Backend service for volunteer event management: events, shifts, roster entries, swap requests and exports.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.database != nil {
					app.database.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(exportRosterCmd())
	rootCmd.AddCommand(exportCalendarCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and database
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	app.logger.Info("Connecting to database")
	app.database, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.logger.Info("Database connected successfully")

	return nil
}

func stores() api.Stores {
	return api.Stores{
		Events:     app.database,
		Shifts:     app.database,
		Roster:     app.database,
		Swaps:      app.database,
		Volunteers: app.database,
		Stats:      app.database,
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.database.RunMigrations(app.ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			var gen *genclient.Client
			if app.cfg.GenAPIKey != "" {
				var err error
				gen, err = genclient.NewClient(app.ctx, app.cfg.GenAPIKey, app.cfg.GenModel)
				if err != nil {
					return fmt.Errorf("failed to create genai client: %w", err)
				}
				app.logger.Info("Generative text client initialized")
			} else {
				app.logger.Warn("GENAI_API_KEY not set, AI endpoints disabled")
			}

			var notifier services.Notifier
			if app.cfg.NotifySwaps {
				creds, err := config.LoadGoogleCredentials(env)
				if err != nil {
					return fmt.Errorf("failed to load google credentials: %w", err)
				}
				gmail, err := gmailclient.NewClient(app.ctx, creds, app.cfg.GmailSender)
				if err != nil {
					return fmt.Errorf("failed to create gmail client: %w", err)
				}
				notifier = gmail
				app.logger.Info("Swap notifications enabled")
			}

			server := api.NewServer(app.cfg, app.logger, stores(), gen, notifier)

			ctx, stop := signal.NotifyContext(app.ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.database.RunMigrations(app.ctx); err != nil {
				return err
			}
			fmt.Println("Migrations applied.")
			return nil
		},
	}
}

func exportRosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exportRoster <event_id>",
		Short: "Write an event's roster as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.database.GetEntriesByEvent(app.ctx, args[0])
			if err != nil {
				return err
			}
			return export.WriteRosterCSV(os.Stdout, entries)
		},
	}
}

func exportCalendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exportCalendar <volunteer_id>",
		Short: "Write a volunteer's upcoming shifts as iCalendar to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.database.GetEntriesByVolunteer(app.ctx, args[0])
			if err != nil {
				return err
			}
			return export.WriteScheduleICS(os.Stdout, entries, time.Now().UTC())
		},
	}
}
