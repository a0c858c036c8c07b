// Package config loads environment variables into typed configuration
// structs, loading a .env file first when one exists. Each configuration
// type is parsed once per process and cached thereafter.
//
//	type Config struct {
//		FetchTimeout time.Duration `env:"ENTITLEMENT_FETCH_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg entitlement.Config
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
//
// Use MustLoad for configuration the process cannot start without.
package config
