// Package config loads pokedex settings from defaults, ~/.pokedex/config.yaml,
// a local .env file and POKEDEX_* environment variables.
package config
