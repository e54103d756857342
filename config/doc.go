// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment using Viper.
//
// # Usage
//
//	var cfg app.Config
//	err := config.LoadConfig("ytranscript", &cfg, config.WithEnvPrefix("YTRANSCRIPT"))
//
// Environment variables override file values; underscores map onto nested
// keys, so YTRANSCRIPT_RESOLVER_FALLBACK_ENABLED sets resolver.fallback_enabled.
package config
