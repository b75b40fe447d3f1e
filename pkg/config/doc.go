// Package config loads env-tagged configuration structs from the process
// environment, with optional .env file support for local development.
//
// Each configuration type is parsed once per process and cached, so any
// package can call Load for the config it needs without coordinating
// initialization order.
//
//	type RedisConfig struct {
//		URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
package config
