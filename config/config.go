package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultPort               = "8080"
	DefaultStoreDriver        = StoreDriverPostgres
	DefaultTokenIssuer        = "realm-auth"
	DefaultTokenTTLMin        = 1440
	DefaultLoginMaxAttempts   = 5
	DefaultLoginWindowMinutes = 15
	DefaultLogLevel           = "info"
	DefaultProxyHeader        = "X-Forwarded-For"

	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Env                string
	Port               string
	StoreDriver        string
	DBURL              string
	RedisURL           string
	SeedFile           string
	TokenSecret        string
	TokenIssuer        string
	TokenTTLMin        int
	LoginMaxAttempts   int
	LoginWindowMinutes int
	LogLevel           string
	// TrustedProxies lists proxy IPs or CIDR ranges whose ProxyHeader is
	// believed for the client address. Empty means the peer address is used.
	TrustedProxies []string
	ProxyHeader    string
}

// Load reads config/.env.dev or config/.env.prod (chosen by ENV) and lets
// real environment variables override anything in the file. Missing
// required keys abort the process.
func Load() *Config {
	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	v := newViper(env)

	cfg := &Config{
		Env:                env,
		Port:               getString(v, "PORT", DefaultPort),
		StoreDriver:        getString(v, "STORE_DRIVER", DefaultStoreDriver),
		RedisURL:           getString(v, "REDIS_URL", ""),
		SeedFile:           getString(v, "SEED_FILE", ""),
		TokenSecret:        mustGetString(v, "TOKEN_SECRET"),
		TokenIssuer:        getString(v, "TOKEN_ISSUER", DefaultTokenIssuer),
		TokenTTLMin:        getInt(v, "TOKEN_TTL_MINUTES", DefaultTokenTTLMin),
		LoginMaxAttempts:   getInt(v, "LOGIN_MAX_ATTEMPTS", DefaultLoginMaxAttempts),
		LoginWindowMinutes: getInt(v, "LOGIN_WINDOW_MINUTES", DefaultLoginWindowMinutes),
		LogLevel:           getString(v, "LOG_LEVEL", DefaultLogLevel),
		TrustedProxies:     getList(v, "TRUSTED_PROXIES"),
		ProxyHeader:        getString(v, "PROXY_HEADER", DefaultProxyHeader),
	}

	if cfg.StoreDriver == StoreDriverPostgres {
		cfg.DBURL = mustGetString(v, "DB_URL")
	} else {
		cfg.DBURL = getString(v, "DB_URL", "")
	}

	return cfg
}

func envFile(env string) string {
	if env == "production" {
		return ".env.prod"
	}
	return ".env.dev"
}

func newViper(env string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(filepath.Join("config", envFile(env)))
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Could not read config file %s: %v", envFile(env), err)
		}
	}
	return v
}

func getString(v *viper.Viper, key, defaultVal string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetString(v *viper.Viper, key string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

// getList splits a comma separated value, dropping empty items.
func getList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range strings.Split(v.GetString(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getInt(v *viper.Viper, key string, defaultVal int) int {
	valStr := v.GetString(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
