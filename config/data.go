package config

import (
	"time"

	"github.com/spf13/viper"
)

// Data represents the data configuration
type Data struct {
	Redis *Redis
}

// Redis config struct
type Redis struct {
	Addr         string        `json:"addr"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	TTL          time.Duration `json:"ttl"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	DialTimeout  time.Duration `json:"dial_timeout"`
}

// Enabled reports whether a redis address is configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Addr != ""
}

// getDataConfig returns data config
func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		Redis: &Redis{
			Addr:         v.GetString("data.redis.addr"),
			Password:     v.GetString("data.redis.password"),
			DB:           v.GetInt("data.redis.db"),
			TTL:          getDurationOrDefault(v, "data.redis.ttl", 30*time.Second),
			ReadTimeout:  getDurationOrDefault(v, "data.redis.read_timeout", 200*time.Millisecond),
			WriteTimeout: getDurationOrDefault(v, "data.redis.write_timeout", 200*time.Millisecond),
			DialTimeout:  getDurationOrDefault(v, "data.redis.dial_timeout", time.Second),
		},
	}
}
