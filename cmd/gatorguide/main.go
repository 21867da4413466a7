package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gatorguide/gatorguide/internal/appdata"
	"github.com/gatorguide/gatorguide/internal/services"
	"github.com/gatorguide/gatorguide/internal/storage"
	"github.com/gatorguide/gatorguide/internal/utils"
)

var rootCmd = &cobra.Command{
	Use:   "gatorguide",
	Short: "GatorGuide transfer advising backend",
	Long: `GatorGuide keeps a transfer applicant's profile, questionnaire answers,
and preferences in one persisted record and serves them over HTTP.

Available subcommands:
  serve  - Run the HTTP API server
  export - Write the current app data to a portable JSON file
  import - Restore app data from a previously exported file`,
}

func main() {
	// A local .env is optional; absence is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openKV picks the persistence backend from GATORGUIDE_STORAGE:
// "sqlite" (default), "file", or "memory".
func openKV() (storage.KV, error) {
	switch utils.SafeEnv("GATORGUIDE_STORAGE", "sqlite") {
	case "memory":
		return storage.NewMemoryKV(), nil
	case "file":
		return storage.NewFileKV(utils.SafeEnv("GATORGUIDE_DATA_DIR", "./data"))
	default:
		return openSQLiteKV()
	}
}

// newStore wires the store over the configured backend and hydrates it.
func newStore(ctx context.Context) (*appdata.Store, services.AuthGateway, storage.KV, error) {
	kv, err := openKV()
	if err != nil {
		return nil, nil, nil, err
	}
	gateway := services.NewLocalAuthGateway()
	store := appdata.New(kv, gateway)
	store.Hydrate(ctx)
	return store, gateway, kv, nil
}
