// Package config loads service configuration with Viper.
//
// LoadConfig resolves a config.yml and an optional .env file from the usual
// locations (cmd/<service>/, config/, the working directory), then overlays
// environment variables. Variables are matched against nested keys by
// splitting on underscores, so MARKETWEB_UPSTREAM_BASE_URL reaches
// upstream.base_url when the prefix is "MARKETWEB".
//
//	var cfg AppConfig
//	err := config.LoadConfig("marketweb", &cfg, config.WithEnvPrefix("MARKETWEB"))
package config
