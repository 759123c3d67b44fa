package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/intake/internal/client"
	"github.com/alfredjeanlab/intake/internal/config"
	"github.com/alfredjeanlab/intake/internal/kv"
	"github.com/alfredjeanlab/intake/internal/model"
	"github.com/alfredjeanlab/intake/internal/store"
	"github.com/alfredjeanlab/intake/internal/store/postgres"
	"github.com/alfredjeanlab/intake/internal/ui"
)

var (
	jsonOutput bool
	serverURL  string

	cfg     *config.Config
	api     *client.HTTPClient
	stores  map[string]store.Store
	closers []io.Closer
)

// openStores wires one store per collection from the configured backend:
// Postgres when INTAKE_DATABASE_URL is set, Redis when INTAKE_REDIS_URL is
// set, and JSON files under the data dir otherwise.
func openStores(ctx context.Context) error {
	var err error
	stores = make(map[string]store.Store)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		closers = append(closers, db)
		for _, c := range model.Collections() {
			stores[c.Name] = db.Records(c)
		}
		return nil
	}

	var backend kv.Store
	if cfg.RedisURL != "" {
		backend, err = kv.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
	} else {
		backend, err = kv.NewFile(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("opening data dir: %w", err)
		}
	}
	closers = append(closers, backend)
	for _, c := range model.Collections() {
		stores[c.Name] = store.ForCollection(backend, c)
	}
	return nil
}

func collectionArg(name string) (model.Collection, error) {
	c, ok := model.CollectionByName(name)
	if !ok {
		return model.Collection{}, fmt.Errorf("unknown collection %q (want careers or registrations)", name)
	}
	return c, nil
}

// The helpers below route each operation through the API client when --server
// is set and through local storage otherwise.

func submitRecord(ctx context.Context, c model.Collection, payload map[string]any) (*model.Record, error) {
	if api != nil {
		return api.Submit(ctx, c.Name, payload)
	}
	return store.Create(ctx, stores[c.Name], c, payload)
}

func listRecords(ctx context.Context, c model.Collection, filter model.Filter) ([]*model.Record, int, error) {
	if api != nil {
		return api.List(ctx, c.Name, client.ListOptions{
			Search: filter.Search,
			Status: string(filter.Status),
			Limit:  filter.Limit,
		})
	}
	records, err := stores[c.Name].LoadAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	return filter.Apply(c, records), len(records), nil
}

func getRecord(ctx context.Context, c model.Collection, id string) (*model.Record, error) {
	if api != nil {
		return api.Get(ctx, c.Name, id)
	}
	return stores[c.Name].FindByID(ctx, id)
}

func updateRecord(ctx context.Context, c model.Collection, id string, patch map[string]any) (*model.Record, error) {
	if api != nil {
		return api.Update(ctx, c.Name, id, patch)
	}
	return stores[c.Name].UpdateByID(ctx, id, patch)
}

func clearRecords(ctx context.Context, c model.Collection) error {
	if api != nil {
		return api.Clear(ctx, c.Name)
	}
	return stores[c.Name].ClearAll(ctx)
}

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Manage career-guidance requests and English test registrations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		// With --server the CLI goes through the HTTP API instead of
		// opening local storage.
		if serverURL != "" {
			api = client.NewHTTPClient(serverURL, cfg.AuthToken)
			return nil
		}
		return openStores(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		for _, c := range closers {
			c.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", os.Getenv("INTAKE_SERVER"), "base URL of a running intake server (empty = local storage)")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
