// Package config loads the process configuration with viper from an optional
// config.yaml and TAROT_* environment variables, applies defaults and
// validates the result.
//
// Environment variables win over the file. Nested keys use underscores:
// storage.database_url is TAROT_STORAGE_DATABASE_URL.
package config
