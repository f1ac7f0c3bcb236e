// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageTypes = []string{"s3", "local"}
	validDrivers      = []string{"sqlite", "postgres"}
	validEnvs         = []string{"development", "production"}

	// ErrNoSecret is returned by Validate when jwt.secret is empty
	ErrNoSecret = errors.New("no jwt secret provided")
)

var keys = []string{
	"app.log_level",
	"app.env",

	"host.port",
	"host.cors",

	"database.driver",
	"database.dsn",

	"jwt.secret",
	"jwt.ttl",

	"storage.type",
	"storage.local_dir",
	"storage.public_path",

	"s3.bucket",
	"s3.region",
	"s3.access_key_id",
	"s3.secret_access_key",
	"s3.endpoint",
	"s3.public_url",

	"upload.max_size",
	"upload.unique_names",

	"discord.client_id",
	"discord.client_secret",
	"discord.redirect_uri",
	"discord.auth_url",
	"discord.token_url",
	"discord.api_url",
	"discord.timeout",

	"http.login_redirect",

	"security.rate_limit",
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func init() {
	pflag.String("config", "", "Path to a config.toml file")
	pflag.Int("host.port", 8080, "Port to listen on")
	pflag.String("app.log_level", "info", "Log level (debug, info, warn, error, fatal)")
}

// SetDefaults registers the defaults and env bindings of every key.
// Env vars are named after the key, upper cased with dots replaced by
// underscores (jwt.secret -> JWT_SECRET).
func SetDefaults() {
	for _, k := range keys {
		v.BindEnv(k, strings.ToUpper(strings.ReplaceAll(k, ".", "_")))
	}

	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.env", "development")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors", "http://localhost:3000")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("jwt.ttl", "24h")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_dir", "public/uploads")
	v.SetDefault("storage.public_path", "/uploads")

	v.SetDefault("upload.max_size", 50)
	v.SetDefault("upload.unique_names", false)

	v.SetDefault("discord.timeout", "10s")

	v.SetDefault("http.login_redirect", "/forum/announcements")

	v.SetDefault("security.rate_limit", 20)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	SetDefaults()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	// The config file is optional, env vars are enough to run
	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	err := Validate()
	if errors.Is(err, ErrNoSecret) {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}
	if err != nil {
		return err
	}

	// MiB to bytes
	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}

// Validate checks the loaded values
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if !slices.Contains(validEnvs, v.GetString("app.env")) {
		return errors.New("app.env must be development or production")
	}

	if p := v.GetInt("host.port"); p <= 0 || p > 65535 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database.dsn can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		return ErrNoSecret
	}

	if v.GetDuration("jwt.ttl") <= 0 {
		return errors.New("jwt.ttl must be a positive duration")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetDuration("discord.timeout") <= 0 {
		return errors.New("discord.timeout must be a positive duration")
	}

	if v.GetInt("security.rate_limit") < 0 {
		return errors.New("security.rate_limit can't be negative")
	}

	if v.GetString("discord.client_id") == "" || v.GetString("discord.client_secret") == "" {
		return errors.New("discord.client_id and discord.client_secret are required")
	}

	if v.GetString("discord.redirect_uri") == "" {
		return errors.New("discord.redirect_uri is required")
	}

	switch v.GetString("storage.type") {
	case "s3":
		if v.GetString("s3.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
		if v.GetString("s3.region") == "" {
			return errors.New("region can't be empty")
		}
		if v.GetString("s3.public_url") == "" {
			return errors.New("public url can't be empty")
		}
	case "local":
		if v.GetString("storage.local_dir") == "" {
			return errors.New("storage.local_dir can't be empty")
		}
		pp := v.GetString("storage.public_path")
		if !strings.HasPrefix(pp, "/") {
			return errors.New("storage.public_path must start with /")
		}
		// Serving uploads at the root would shadow /api
		if strings.Trim(pp, "/") == "" || strings.HasPrefix(strings.Trim(pp, "/")+"/", "api/") {
			return errors.New("storage.public_path can't be / or under /api")
		}
	}

	if !slices.Contains(validStorageTypes, v.GetString("storage.type")) {
		return errors.New("invalid storage type provided")
	}

	return nil
}
