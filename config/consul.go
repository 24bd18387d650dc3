package config

import (
	"time"

	"github.com/spf13/viper"
)

// Consul config struct
type Consul struct {
	Address   string `json:"address"`
	Scheme    string `json:"scheme"`
	Token     string `json:"token"`
	Discovery struct {
		CacheTTL    time.Duration `json:"cache_ttl"`
		OnlyPassing bool          `json:"only_passing"`
	} `json:"discovery"`
}

// getConsulConfig get consul config
func getConsulConfig(v *viper.Viper) *Consul {
	consul := &Consul{
		Address: v.GetString("consul.address"),
		Scheme:  getStringOrDefault(v, "consul.scheme", "http"),
		Token:   v.GetString("consul.token"),
	}

	consul.Discovery.CacheTTL = getDurationOrDefault(v, "consul.discovery.cache_ttl", 30*time.Second)
	consul.Discovery.OnlyPassing = getBoolOrDefault(v, "consul.discovery.only_passing", true)

	return consul
}
