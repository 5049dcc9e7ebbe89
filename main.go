package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/joho/godotenv"

	"github.com/mthijssen/livevote/cliparse"
	"github.com/mthijssen/livevote/db"
	"github.com/mthijssen/livevote/middleware"
	"github.com/mthijssen/livevote/oidc"
	"github.com/mthijssen/livevote/router"
	"github.com/mthijssen/livevote/store"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := openDatabase(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	st := store.New(dbConn)

	// Maintenance path: promote a user and exit
	if cfg.PromoteUser != 0 {
		user, err := st.Promote(context.Background(), cfg.PromoteUser)
		if err != nil {
			slog.Error("promotion failed", "user_id", cfg.PromoteUser, "error", err)
			os.Exit(1)
		}
		slog.Info("user promoted to admin", "user_id", user.ID, "name", user.Name())
		return
	}

	oidcClient := oidc.NewClient(cfg.OIDCBaseURL, cfg.OIDCClientID, cfg.OIDCClientSecret)

	// Create router
	mux := router.NewRouter(st, oidcClient, cfg, slog.Default())

	// Create server. The frontend is served from another origin, so the
	// whole API sits behind the CORS middleware.
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openDatabase opens the configured database. SQLite runs on a single
// connection so the foreign_keys pragma applies to every statement.
func openDatabase(cfg cliparse.Config) (*sql.DB, error) {
	if cfg.DatabaseType == "postgres" {
		return sql.Open("postgres", cfg.DatabaseURL)
	}

	dbConn, err := sql.Open("sqlite", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	dbConn.SetMaxOpenConns(1)
	if _, err := dbConn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}
