// Package config loads the composite service configuration with Viper.
//
// Configuration comes from environment variables and, optionally, a config
// file passed with --conf. The two upstream base URLs are mandatory:
//
//	USERS_BASE=http://users:8000/users
//	ADDRESSES_BASE=http://location:8001/addresses
//
// A base URL may also name a Consul service, resolved at startup:
//
//	USERS_BASE=consul://users-service/users
//	CONSUL_ADDRESS=consul:8500
//
// Any key can be overridden with its SECTION_KEY form, for example
// UPSTREAMS_USERS_BREAKER_TIMEOUT=5s.
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//
// Load validates the result, so a returned *Config is ready to serve.
package config
