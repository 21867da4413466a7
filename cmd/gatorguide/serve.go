package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/gatorguide/gatorguide/internal/api"
	"github.com/gatorguide/gatorguide/internal/middleware"
	"github.com/gatorguide/gatorguide/internal/services"
	"github.com/gatorguide/gatorguide/internal/storage"
	"github.com/gatorguide/gatorguide/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func openSQLiteKV() (storage.KV, error) {
	path := utils.SafeEnv("GATORGUIDE_SQLITE", "./data/gatorguide.db")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(path))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := storage.RunMigrations(db, os.Getenv("GATORGUIDE_MIGRATIONS_DIR")); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	kv, err := storage.NewSQLiteKV(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return kv, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := utils.SafeEnv("GATORGUIDE_ADDR", ":8080")

	store, gateway, kv, err := newStore(cmd.Context())
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	api.NewRouter(store, gateway, services.NewKVFileStore(kv)).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":       true,
			"name":     "GatorGuide API",
			"locale":   locale,
			"msg":      utils.T(locale, "health.ok"),
			"hydrated": store.IsHydrated(),
		})
	})

	handler := middleware.NoStore(middleware.Locale(middleware.WithAuth(mux)))

	log.Printf("GatorGuide server listening on %s", addr)
	return http.ListenAndServe(addr, handler)
}
