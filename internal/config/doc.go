// Package config loads and validates application configuration. Values come
// from defaults, an optional config.yaml, an optional .env file and LMS_*
// environment variables, in increasing order of precedence.
package config
