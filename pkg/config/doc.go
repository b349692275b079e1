// Package config loads typed configuration structs from the process
// environment.
//
// Each component defines its own Config struct with `env` tags and loads it
// at startup:
//
//	type ServerConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
//
// A .env file in the working directory is loaded once per process before the
// first parse, which keeps local development setups out of the shell profile.
package config
