// Package config loads typed configuration structs from environment
// variables, with optional .env file support for development.
//
// Every component of the engine declares its own config struct with env
// tags (postgres.Config, logger.Config, notify.Config) and loads it through
// this package. Parsing happens once per type per process and the result is
// cached, so configuration stays consistent across packages.
package config
