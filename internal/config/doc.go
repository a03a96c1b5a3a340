// Package config loads service settings from an optional config file and
// TASKS_-prefixed environment variables using viper, then validates them with
// go-playground/validator.
package config
