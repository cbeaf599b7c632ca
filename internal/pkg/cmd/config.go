package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klwxsrx/vocab-client/pkg/env"
	"github.com/klwxsrx/vocab-client/pkg/tokenstore"
)

const (
	EnvPrefix = "vocab"

	TokenStoreFile   = "file"
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
	TokenStoreSQL    = "sql"

	defaultStateDir   = "vocab"
	defaultTokenFile  = "token"
	defaultCookieFile = "cookies.json"
)

var ErrUnknownTokenStore = errors.New("unknown token store")

type Config struct {
	LogLevel string

	TokenStore  string
	TokenFile   string
	CookieFile  string
	RedisURL    string
	RedisPrefix string
	SQL         tokenstore.SQLConfig

	HTTPTimeout         time.Duration
	HTTPRetryMaxElapsed time.Duration

	MetricsAddress string
}

func EnvKey(name string) string {
	return env.Key(EnvPrefix, name)
}

// LoadConfig reads VOCAB_* variables, dotenv files are applied first when present.
func LoadConfig(dotenvFiles ...string) (Config, error) {
	if err := env.LoadFiles(dotenvFiles...); err != nil {
		return Config{}, err
	}

	stateDir, err := defaultStateDirectory()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		LogLevel:    optionalString("logLevel", "warn"),
		TokenStore:  optionalString("tokenStore", TokenStoreFile),
		TokenFile:   optionalString("tokenFile", filepath.Join(stateDir, defaultTokenFile)),
		CookieFile:  optionalString("cookieFile", filepath.Join(stateDir, defaultCookieFile)),
		RedisPrefix: optionalString("redisPrefix", ""),
		SQL: tokenstore.SQLConfig{
			Driver: optionalString("sqlDriver", tokenstore.DriverSQLite),
		},
		MetricsAddress: optionalString("metricsAddr", ""),
	}

	switch cfg.TokenStore {
	case TokenStoreFile, TokenStoreMemory:
	case TokenStoreRedis:
		if cfg.RedisURL, err = env.Parse[string](EnvKey("redisUrl")); err != nil {
			return Config{}, err
		}
	case TokenStoreSQL:
		if cfg.SQL.DSN, err = env.Parse[string](EnvKey("sqlDsn")); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownTokenStore, cfg.TokenStore)
	}

	if cfg.HTTPTimeout, err = env.ParseDefault[time.Duration](EnvKey("httpTimeout"), 0); err != nil {
		return Config{}, err
	}
	if cfg.HTTPRetryMaxElapsed, err = env.ParseDefault[time.Duration](EnvKey("httpRetryMaxElapsed"), 0); err != nil {
		return Config{}, err
	}
	if cfg.SQL.ConnectionTimeout, err = env.ParseDefault[time.Duration](EnvKey("sqlConnectionTimeout"), 0); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func optionalString(name, fallback string) string {
	v, _ := env.ParseDefault[string](EnvKey(name), fallback)
	return v
}

func defaultStateDirectory() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, defaultStateDir), nil
}
