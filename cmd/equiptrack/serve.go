package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/honlab/equiptrack/internal/api"
	"github.com/honlab/equiptrack/internal/auth"
	"github.com/honlab/equiptrack/internal/catalog"
	"github.com/honlab/equiptrack/internal/db"
	"github.com/honlab/equiptrack/internal/inventory"
	"github.com/honlab/equiptrack/internal/metrics"
	"github.com/honlab/equiptrack/internal/model"
	"github.com/honlab/equiptrack/internal/retention"
	"github.com/honlab/equiptrack/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled purge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(a)
		},
	}
}

func serve(a *app) error {
	cfg := a.cfg

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		database, password, err := initDatabase(cfg.DBPath, cfg.AdminUser)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		database.Close()

		printInitResult(cfg.DBPath, cfg.AdminUser, password)
		fmt.Println()
	}

	policy, err := cfg.RetentionPolicy()
	if err != nil {
		return err
	}

	m := metrics.New()
	database, svc, err := openService(cfg.DBPath, m)
	if err != nil {
		return err
	}
	defer database.Close()

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(context.Background(), database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}

	router := api.NewRouter(api.Config{
		DB:         database,
		Service:    svc,
		Signer:     auth.NewSigner(jwtSecret),
		Retention:  policy,
		CronSecret: cfg.CronSecret,
		Metrics:    m,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	purgeDone := make(chan struct{})
	go func() {
		defer close(purgeDone)
		runPurgeLoop(ctx, database, svc, policy, cfg.PurgeInterval)
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())
		cancel()

		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "retention", cfg.Retention)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	cancel()
	<-purgeDone
	slog.Info("server stopped, closing database")
	return nil
}

// openService opens the database and builds an inventory service with its
// rooms synced.
func openService(path string, m *metrics.Metrics) (*sql.DB, *inventory.Service, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", path)

	svc := inventory.NewService(store.NewInventory(database), catalog.Default(), inventory.WithMetrics(m))
	if err := svc.SyncRooms(context.Background()); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("syncing rooms: %w", err)
	}
	return database, svc, nil
}

// runPurgeLoop purges expired equipment and stale token revocations every
// interval until ctx is done. Runs never overlap. A zero interval disables
// the loop.
func runPurgeLoop(ctx context.Context, database *sql.DB, svc *inventory.Service, policy retention.Policy, interval time.Duration) {
	if interval <= 0 {
		slog.Info("scheduled purge disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// PurgeExpired logs its own outcome.
			svc.PurgeExpired(ctx, policy)
			pruneTokens(ctx, database)
		}
	}
}

func pruneTokens(ctx context.Context, database *sql.DB) {
	n, err := store.PruneRevokedTokens(ctx, database, time.Now())
	if err != nil {
		slog.Error("failed to prune revoked tokens", "error", err)
		return
	}
	if n > 0 {
		slog.Info("revoked tokens pruned", "count", n)
	}
}

// initDatabase creates a new database, ensures the schema, and creates the admin user.
func initDatabase(path, adminUsername string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(step string, err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("%s: %w", step, err)
	}

	if err := db.EnsureSchema(database); err != nil {
		return fail("ensuring schema", err)
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail("generating password", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail("hashing password", err)
	}

	if _, err := store.CreateUser(context.Background(), database, adminUsername, string(hash), model.RoleAdmin); err != nil {
		return fail("creating admin user", err)
	}

	return database, password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
