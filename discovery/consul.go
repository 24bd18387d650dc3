package discovery

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"

	"github.com/hashicorp/consul/api"
	"github.com/ncobase/composite/config"
	"github.com/ncobase/composite/logging/logger"
)

// Consul resolves service names to healthy instances through the Consul
// health API. Results are cached for the configured TTL and handed out
// round robin.
type Consul struct {
	client      *api.Client
	cache       *instanceCache
	onlyPassing bool
	next        atomic.Uint64
	metrics     struct {
		lookups atomic.Int64
		errors  atomic.Int64
	}
}

// NewConsul creates a Consul resolver from cfg.
func NewConsul(cfg *config.Consul) (*Consul, error) {
	if cfg == nil || cfg.Address == "" {
		return nil, fmt.Errorf("consul address is not configured")
	}

	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.Address
	if cfg.Scheme != "" {
		consulConfig.Scheme = cfg.Scheme
	}
	if cfg.Token != "" {
		consulConfig.Token = cfg.Token
	}

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}

	return &Consul{
		client:      client,
		cache:       newInstanceCache(cfg.Discovery.CacheTTL),
		onlyPassing: cfg.Discovery.OnlyPassing,
	}, nil
}

// Resolve returns the host:port of one instance of service.
func (c *Consul) Resolve(ctx context.Context, service string) (string, error) {
	c.metrics.lookups.Add(1)

	addrs, ok := c.cache.get(service)
	if !ok {
		var err error
		addrs, err = c.lookup(ctx, service)
		if err != nil {
			c.metrics.errors.Add(1)
			return "", err
		}
		c.cache.put(service, addrs)
	}

	i := c.next.Add(1) - 1
	return addrs[i%uint64(len(addrs))], nil
}

// Forget drops the cached instances of service.
func (c *Consul) Forget(service string) {
	c.cache.evict(service)
}

func (c *Consul) lookup(ctx context.Context, service string) ([]string, error) {
	q := (&api.QueryOptions{}).WithContext(ctx)
	entries, _, err := c.client.Health().Service(service, "", c.onlyPassing, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query consul for %s: %w", service, err)
	}

	addrs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Service == nil || e.Service.Port == 0 {
			continue
		}
		host := e.Service.Address
		if host == "" && e.Node != nil {
			host = e.Node.Address
		}
		if host == "" {
			continue
		}
		addrs = append(addrs, net.JoinHostPort(host, strconv.Itoa(e.Service.Port)))
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInstances, service)
	}

	logger.Debugf(ctx, "resolved %s to %d instance(s)", service, len(addrs))
	return addrs, nil
}

// GetStats returns lookup and cache statistics.
func (c *Consul) GetStats() map[string]any {
	return map[string]any{
		"lookups": c.metrics.lookups.Load(),
		"errors":  c.metrics.errors.Load(),
		"cache":   c.cache.stats(),
	}
}
