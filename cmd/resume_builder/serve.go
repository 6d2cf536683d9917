package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort   int
	serveOrigin string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the AI proxy server",
	Long: `Start the HTTP proxy the editor calls for bullet drafting, cover letters,
résumé reviews and chat. Session snapshots are kept in PostgreSQL when
DATABASE_URL is set and in memory otherwise.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config or PORT, 3000)")
	serveCmd.Flags().StringVar(&serveOrigin, "origin", "", "Allowed CORS origin (default from CLIENT_URL, or *)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := llm.NewClient(ctx, llm.DefaultConfig().WithEnv(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var backend session.Backend = session.NewMemoryBackend()
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		backend = session.NewPostgresBackend(database)
		logger.Info("session snapshots stored in postgres")
	}

	port := servePort
	if port == 0 {
		port = cfg.Port
	}
	origin := serveOrigin
	if origin == "" {
		origin = cfg.AllowedOrigin
	}

	srv := server.New(server.Config{
		Port:          port,
		AllowedOrigin: origin,
		RateLimit:     ratelimit.LoadConfig(),
		Sessions:      backend,
	}, client, logger)

	logger.Info("starting proxy", zap.Int("port", port), zap.String("origin", origin))
	return srv.Start(ctx)
}
