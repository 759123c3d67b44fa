package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alfredjeanlab/intake/internal/export"
	"github.com/alfredjeanlab/intake/internal/model"
)

type Config struct {
	DataDir     string // INTAKE_DATA_DIR (default ~/.intake)
	HTTPAddr    string // INTAKE_HTTP_ADDR (default ":8080")
	AuthToken   string // INTAKE_AUTH_TOKEN (optional, empty = auth disabled)
	NATSURL     string // INTAKE_NATS_URL (optional, empty = no events)
	DatabaseURL string // INTAKE_DATABASE_URL (optional, set = postgres store)
	RedisURL    string // INTAKE_REDIS_URL (optional, set = redis kv backend)

	// Sync settings
	SyncInterval   time.Duration // INTAKE_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // INTAKE_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Prefix   string        // INTAKE_SYNC_S3_PREFIX (default "intake")
	SyncS3Region   string        // INTAKE_SYNC_S3_REGION (default "us-east-1")
	SyncS3Endpoint string        // INTAKE_SYNC_S3_ENDPOINT (custom endpoint for MinIO)

	// TemplatesPath points at an optional TOML file overriding CSV export
	// templates per collection. INTAKE_EXPORT_TEMPLATES.
	TemplatesPath string
}

func Load() (*Config, error) {
	c := &Config{
		DataDir:        os.Getenv("INTAKE_DATA_DIR"),
		HTTPAddr:       envOrDefault("INTAKE_HTTP_ADDR", ":8080"),
		AuthToken:      os.Getenv("INTAKE_AUTH_TOKEN"),
		NATSURL:        os.Getenv("INTAKE_NATS_URL"),
		DatabaseURL:    os.Getenv("INTAKE_DATABASE_URL"),
		RedisURL:       os.Getenv("INTAKE_REDIS_URL"),
		SyncS3Bucket:   os.Getenv("INTAKE_SYNC_S3_BUCKET"),
		SyncS3Prefix:   envOrDefault("INTAKE_SYNC_S3_PREFIX", "intake"),
		SyncS3Region:   envOrDefault("INTAKE_SYNC_S3_REGION", "us-east-1"),
		SyncS3Endpoint: os.Getenv("INTAKE_SYNC_S3_ENDPOINT"),
		TemplatesPath:  os.Getenv("INTAKE_EXPORT_TEMPLATES"),
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("INTAKE_DATA_DIR not set and home dir unknown: %w", err)
		}
		c.DataDir = filepath.Join(home, ".intake")
	}

	intervalStr := envOrDefault("INTAKE_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("INTAKE_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// templatesFile is the on-disk shape of the export-templates TOML file:
//
//	[careers]
//	columns = ["id", "fullName"]
//	filename = "career-guidance.csv"
type templatesFile map[string]export.Template

// Templates returns the CSV export template for every collection, starting
// from the built-in defaults and applying any overrides from the TOML file at
// TemplatesPath. A missing file is fine; a malformed one is an error.
func (c *Config) Templates() (map[string]export.Template, error) {
	templates := make(map[string]export.Template)
	for _, col := range model.Collections() {
		templates[col.Name] = export.DefaultTemplate(col)
	}

	if c.TemplatesPath == "" {
		return templates, nil
	}

	var overrides templatesFile
	if _, err := toml.DecodeFile(c.TemplatesPath, &overrides); err != nil {
		if os.IsNotExist(err) {
			return templates, nil
		}
		return nil, fmt.Errorf("parse %s: %w", c.TemplatesPath, err)
	}

	for name, override := range overrides {
		base, ok := templates[name]
		if !ok {
			return nil, fmt.Errorf("%s: unknown collection %q", c.TemplatesPath, name)
		}
		if len(override.Columns) > 0 {
			base.Columns = override.Columns
		}
		if override.Filename != "" {
			base.Filename = override.Filename
		}
		templates[name] = base
	}
	return templates, nil
}
