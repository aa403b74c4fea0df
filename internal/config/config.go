package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

const (
	DefaultCartKey = "iphoneCart"
	DefaultDBPath  = "storefront.db"
	DefaultLogDir  = "logs"
)

// Config holds application configuration
type Config struct {
	Store   string // Storage backend (memory|sqlite)
	DBPath  string // SQLite database file, used when Store is sqlite
	CartKey string // Storage key holding the serialized cart
	LogDir  string
	Debug   bool

	// Server mode
	ListenAddr string // Empty runs the terminal app instead of the websocket server
}

// Default returns the configuration used when no flags or environment are set.
// Values from the environment (and a .env file, if present) replace the defaults.
func Default() Config {
	// A missing .env file is normal.
	_ = godotenv.Load()

	return Config{
		Store:      getEnv("STOREFRONT_STORE", StoreSQLite),
		DBPath:     getEnv("STOREFRONT_DB", DefaultDBPath),
		CartKey:    getEnv("STOREFRONT_CART_KEY", DefaultCartKey),
		LogDir:     getEnv("STOREFRONT_LOG_DIR", DefaultLogDir),
		ListenAddr: os.Getenv("STOREFRONT_ADDR"),
	}
}

// Validate reports configuration that cannot be started.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("sqlite store requires a database path")
		}
	default:
		return fmt.Errorf("unknown store: %s", c.Store)
	}
	if c.CartKey == "" {
		return fmt.Errorf("cart key cannot be empty")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
