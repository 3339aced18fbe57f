package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the server settings.
type Config struct {
	Addr           string
	StaticDir      string
	LogLevel       logrus.Level
	DatabaseDriver string
	DatabaseURL    string
	StartingLives  int
	Seats          int
	BotLevel       string
	BotDelay       time.Duration
	SettleDelay    time.Duration
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:           ":8080",
		StaticDir:      "web/static",
		LogLevel:       logrus.InfoLevel,
		DatabaseDriver: "sqlite3",
		DatabaseURL:    "./fodinha.db",
		StartingLives:  5,
		Seats:          4,
		BotLevel:       "normal",
		BotDelay:       1500 * time.Millisecond,
		SettleDelay:    2000 * time.Millisecond,
	}
}

// Load reads an optional .env file and then the environment. Invalid values
// are logged and replaced by their defaults.
func Load(log logrus.FieldLogger, files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("file", f).Warn("Could not load env file.")
		}
	}
	return FromEnv(log, os.LookupEnv)
}

// FromEnv builds a Config from lookup, which has the signature of os.LookupEnv.
func FromEnv(log logrus.FieldLogger, lookup func(string) (string, bool)) Config {
	cfg := Default()
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	intIn := func(key string, dst *int, lo, hi int) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < lo || n > hi {
			log.WithFields(logrus.Fields{"key": key, "value": v}).Warnf("Invalid value, using %d.", *dst)
			return
		}
		*dst = n
	}
	millis := func(key string, dst *time.Duration) {
		ms := int(*dst / time.Millisecond)
		intIn(key, &ms, 0, 60_000)
		*dst = time.Duration(ms) * time.Millisecond
	}

	str("ADDR", &cfg.Addr)
	str("STATIC_DIR", &cfg.StaticDir)
	str("DATABASE_URL", &cfg.DatabaseURL)

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			log.WithField("value", v).Warn("Invalid LOG_LEVEL, using info.")
		} else {
			cfg.LogLevel = level
		}
	}

	driver := cfg.DatabaseDriver
	str("DATABASE_DRIVER", &driver)
	switch driver {
	case "sqlite3", "pgx":
		cfg.DatabaseDriver = driver
	case "postgres":
		cfg.DatabaseDriver = "pgx"
	default:
		log.WithField("value", driver).Warn("Invalid DATABASE_DRIVER, using sqlite3.")
	}

	level := cfg.BotLevel
	str("BOT_LEVEL", &level)
	if level == "easy" || level == "normal" {
		cfg.BotLevel = level
	} else {
		log.WithField("value", level).Warn("Invalid BOT_LEVEL, using normal.")
	}

	intIn("STARTING_LIVES", &cfg.StartingLives, 1, 99)
	intIn("SEATS", &cfg.Seats, 2, 39)
	millis("BOT_DELAY_MS", &cfg.BotDelay)
	millis("SETTLE_DELAY_MS", &cfg.SettleDelay)
	return cfg
}
