// Package config loads the process configuration from the environment and opens the event store
// it describes.
//
// Values come from environment variables, optionally seeded from .env files. Variables that are
// already set win over values in the files.
package config
