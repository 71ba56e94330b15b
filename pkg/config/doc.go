// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv (reading .env files) and
// github.com/caarlos0/env/v11 (parsing the environment into tagged structs).
// Each configuration type is parsed once and cached for the lifetime of the
// process.
//
//	type Config struct {
//	    AppName string `env:"APP_NAME" envDefault:"tagform"`
//	    Greeter string `env:"GREETING_FROM,required"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Call LoadEnv before the first Load to read specific .env files; otherwise
// ./.env is read if present. ResetCache and ForceReload exist for tests that
// change the environment between loads.
package config
