// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	seedAdmin      = pflag.Bool("seed-admin", false, "Resets the bootstrap admin account and exits")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "mysql"}
)

// SeedAdminRequested reports whether the process was started with
// the --seed-admin maintenance flag.
func SeedAdminRequested() bool {
	return *seedAdmin
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.host", "DB_HOST")
	v.BindEnv("db.user", "DB_USER")
	v.BindEnv("db.password", "DB_PASSWORD")
	v.BindEnv("db.name", "DB_NAME")
	v.BindEnv("db.file", "db_file")
	v.BindEnv("db.max_open_conns", "db_max_open_conns")
	v.BindEnv("db.max_idle_conns", "db_max_idle_conns")

	v.BindEnv("session.secret", "SESSION_SECRET")
	v.BindEnv("session.secret_file", "session_secret_file")
	v.BindEnv("session.max_age", "session_max_age")

	v.BindEnv("admin.name", "admin_name")
	v.BindEnv("admin.email", "admin_email")
	v.BindEnv("admin.password", "ADMIN_PASSWORD")

	v.BindEnv("audit.workers", "audit_workers")
	v.BindEnv("audit.queue_size", "audit_queue_size")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.file", "todo.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)

	v.SetDefault("session.secret_file", ".session_secret")
	v.SetDefault("session.max_age", "24h")

	v.SetDefault("admin.name", "admin")
	v.SetDefault("admin.email", "admin@localhost")

	v.SetDefault("audit.workers", 1)
	v.SetDefault("audit.queue_size", 256)

	if err := v.ReadInConfig(); err != nil {
		// The whole config can come from env variables, so a missing
		// config.toml isn't fatal
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	switch v.GetString("db.driver") {
	case "mysql":
		{
			if v.GetString("db.host") == "" {
				return errors.New("db host can't be empty")
			}
			if v.GetString("db.user") == "" {
				return errors.New("db user can't be empty")
			}
			if v.GetString("db.name") == "" {
				return errors.New("db name can't be empty")
			}
		}
	case "sqlite":
		{
			if v.GetString("db.file") == "" {
				return errors.New("db file can't be empty")
			}
		}
	default:
		return fmt.Errorf("invalid db driver provided, must be one of %v", validDrivers)
	}

	if v.GetDuration("session.max_age") <= 0 {
		return errors.New("session.max_age must be bigger than 0")
	}

	if v.GetString("session.secret") == "" {
		secret, err := loadOrCreateSecret(v.GetString("session.secret_file"))
		if err != nil {
			return err
		}

		v.Set("session.secret", secret)
	}

	return nil
}

// loadOrCreateSecret reads the persisted session signing secret, generating
// and persisting a new random one on first startup. Sessions issued before
// a restart stay valid and a hardcoded fallback key never exists.
func loadOrCreateSecret(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		secret := string(bytes.TrimSpace(b))
		if secret != "" {
			return secret, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read session secret file, %w", err)
	}

	secret := genSecret()
	if err := os.WriteFile(path, []byte(secret+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to persist session secret, %w", err)
	}

	fmt.Println("No session secret configured, generated one and saved it to " + path)
	return secret, nil
}
