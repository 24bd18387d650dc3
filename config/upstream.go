package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Upstream names.
const (
	UsersUpstream     = "users"
	AddressesUpstream = "addresses"
)

// Upstreams holds the backends the composite service fans out to.
type Upstreams struct {
	Users     *Upstream
	Addresses *Upstream
}

// Upstream config struct
type Upstream struct {
	Name    string        `json:"name"`
	Env     string        `json:"-"` // environment variable holding Base
	Base    string        `json:"base"`
	Timeout time.Duration `json:"timeout"`
	Breaker *Breaker      `json:"breaker"`
}

// Breaker holds circuit breaker settings for one upstream.
type Breaker struct {
	MaxRequests  uint32        `json:"max_requests"`  // requests allowed while half-open
	Interval     time.Duration `json:"interval"`      // closed-state counter reset period
	Timeout      time.Duration `json:"timeout"`       // open-state duration
	MinRequests  uint32        `json:"min_requests"`  // requests before the ratio applies
	FailureRatio float64       `json:"failure_ratio"` // ratio that trips the breaker
}

// getUpstreamsConfig get upstreams config
func getUpstreamsConfig(v *viper.Viper) *Upstreams {
	return &Upstreams{
		Users:     getUpstreamConfig(v, UsersUpstream, "USERS_BASE"),
		Addresses: getUpstreamConfig(v, AddressesUpstream, "ADDRESSES_BASE"),
	}
}

func getUpstreamConfig(v *viper.Viper, name, env string) *Upstream {
	prefix := "upstreams." + name
	return &Upstream{
		Name:    name,
		Env:     env,
		Base:    v.GetString(prefix + ".base"),
		Timeout: getDurationOrDefault(v, prefix+".timeout", 2*time.Second),
		Breaker: &Breaker{
			MaxRequests:  getUint32OrDefault(v, prefix+".breaker.max_requests", 1),
			Interval:     getDurationOrDefault(v, prefix+".breaker.interval", 30*time.Second),
			Timeout:      getDurationOrDefault(v, prefix+".breaker.timeout", 10*time.Second),
			MinRequests:  getUint32OrDefault(v, prefix+".breaker.min_requests", 5),
			FailureRatio: getFloat64OrDefault(v, prefix+".breaker.failure_ratio", 0.6),
		},
	}
}

func (u *Upstream) validate(consul *Consul) error {
	if u == nil {
		return fmt.Errorf("upstream is not configured")
	}
	if u.Base == "" {
		return fmt.Errorf("%s (upstreams.%s.base) is required", u.Env, u.Name)
	}
	parsed, err := url.Parse(u.Base)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", u.Env, err)
	}
	switch parsed.Scheme {
	case "http", "https":
		if parsed.Host == "" {
			return fmt.Errorf("%s has no host: %q", u.Env, u.Base)
		}
	case "consul":
		if parsed.Host == "" {
			return fmt.Errorf("%s has no consul service name: %q", u.Env, u.Base)
		}
		if consul == nil || consul.Address == "" {
			return fmt.Errorf("%s uses consul but consul.address (CONSUL_ADDRESS) is not set", u.Env)
		}
	default:
		return fmt.Errorf("%s has unsupported scheme %q", u.Env, parsed.Scheme)
	}
	if u.Timeout <= 0 {
		return fmt.Errorf("upstreams.%s.timeout must be positive", u.Name)
	}
	if u.Breaker != nil && (u.Breaker.FailureRatio <= 0 || u.Breaker.FailureRatio > 1) {
		return fmt.Errorf("upstreams.%s.breaker.failure_ratio must be in (0, 1]", u.Name)
	}
	return nil
}
