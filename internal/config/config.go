// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Mirror backend: memory, dir, drive or sqlite. Drive credentials come
	// from GDRIVE_* variables read by the drive package itself.
	MirrorBackend string
	MirrorDir     string
	SQLiteDBPath  string
	MirrorTimeout time.Duration

	// Entity profile and price list, both optional YAML files.
	AssociationFile string
	ListinoFile     string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		MirrorBackend: getEnv("MIRROR_BACKEND", "memory"),
		MirrorDir:     getEnv("MIRROR_DIR", "./data"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/asdgest.db"),
		MirrorTimeout: getEnvDuration("MIRROR_TIMEOUT", 10*time.Second),

		AssociationFile: getEnv("ASSOCIATION_FILE", ""),
		ListinoFile:     getEnv("LISTINO_FILE", ""),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.MirrorBackend {
	case "memory", "drive":
	case "dir":
		if c.MirrorDir == "" {
			errs = append(errs, "mirror directory cannot be empty when using dir backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid mirror backend '%s': must be one of [memory dir drive sqlite]", c.MirrorBackend))
	}

	if c.MirrorTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid mirror timeout %v: must be at least 1 second", c.MirrorTimeout))
	}

	for _, f := range []struct{ name, path string }{
		{"association file", c.AssociationFile},
		{"listino file", c.ListinoFile},
	} {
		if f.path != "" {
			if _, err := os.Stat(f.path); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("%s does not exist: %s", f.name, f.path))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
