// Package config provides configuration loading and validation for the
// mock listener load generator. It handles YAML-based configuration with
// struct validation and built-in defaults that command-line flags can
// override.
package config
