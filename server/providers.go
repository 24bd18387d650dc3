package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/ncobase/composite/aggregator"
	"github.com/ncobase/composite/cache"
	"github.com/ncobase/composite/concurrency"
	"github.com/ncobase/composite/config"
	"github.com/ncobase/composite/discovery"
	"github.com/ncobase/composite/handler"
	"github.com/ncobase/composite/logging/logger"
	"github.com/ncobase/composite/proxy"
	"github.com/ncobase/composite/tracing"
	"github.com/ncobase/composite/upstream"
	"github.com/ncobase/composite/version"
	"github.com/redis/go-redis/v9"
)

// ProviderSet is the wire provider set for the server package
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideObservability,
	ProvideResolver,
	ProvideTransport,
	ProvideUpstreams,
	ProvideRedis,
	ProvideUserCache,
	ProvideAggregator,
	ProvideAddressProxy,
	ProvideHandler,
	ProvideLimiter,
	New,
)

// Observability reports which observability backends are active.
type Observability struct {
	Tracing bool
	Sentry  bool
}

// Upstreams holds one client per backend.
type Upstreams struct {
	Users     *upstream.Client
	Addresses *upstream.Client
}

// All returns the clients in a stable order.
func (u *Upstreams) All() []*upstream.Client {
	return []*upstream.Client{u.Users, u.Addresses}
}

// ProvideLogger initializes and returns the standard logger
func ProvideLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	cleanup, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	l := logger.StdLogger()
	l.SetVersion(version.Version)
	return l, cleanup, nil
}

// ProvideObservability starts tracing and Sentry. The logger is taken to
// order initialisation after it.
func ProvideObservability(cfg *config.Config, _ *logger.Logger) (*Observability, func(), error) {
	ctx := context.Background()
	obs := &Observability{}

	var tracerCfg *config.Tracer
	var sentryCfg *config.Sentry
	if cfg.Observes != nil {
		tracerCfg, sentryCfg = cfg.Observes.Tracer, cfg.Observes.Sentry
	}

	shutdown, err := tracing.NewTracer(ctx, tracerCfg, version.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	obs.Tracing = tracerCfg != nil && tracerCfg.Endpoint != ""

	obs.Sentry, err = tracing.NewSentry(sentryCfg, cfg.AppName, version.Version)
	if err != nil {
		_ = shutdown(ctx)
		return nil, nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	cleanup := func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warnf(sctx, "tracer shutdown: %v", err)
		}
		if obs.Sentry {
			tracing.FlushSentry(2 * time.Second)
		}
	}
	return obs, cleanup, nil
}

// ProvideResolver returns the Consul resolver, or nil when no upstream is
// addressed through Consul.
func ProvideResolver(cfg *config.Config) (*discovery.Consul, error) {
	needed := false
	for _, u := range []*config.Upstream{cfg.Upstreams.Users, cfg.Upstreams.Addresses} {
		if t, err := discovery.Parse(u.Base); err == nil && t.Service != "" {
			needed = true
		}
	}
	if !needed {
		return nil, nil
	}
	return discovery.NewConsul(cfg.Consul)
}

// ProvideTransport returns the base transport of the upstream clients,
// resolving Consul service names when a resolver is configured.
func ProvideTransport(resolver *discovery.Consul) http.RoundTripper {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.MaxIdleConnsPerHost = 64
	if resolver == nil {
		return base
	}
	return discovery.NewTransport(resolver, base)
}

// ProvideUpstreams creates the Users and Addresses clients.
func ProvideUpstreams(cfg *config.Config, rt http.RoundTripper) (*Upstreams, error) {
	build := func(u *config.Upstream) (*upstream.Client, error) {
		target, err := discovery.Parse(u.Base)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", u.Env, err)
		}
		if target.Service != "" {
			dt, ok := rt.(*discovery.Transport)
			if !ok {
				return nil, fmt.Errorf("%s uses consul but no resolver is configured", u.Env)
			}
			dt.Register(target.Service)
		}
		return upstream.NewClient(u, target.Base, upstream.WithTransport(rt))
	}

	users, err := build(cfg.Upstreams.Users)
	if err != nil {
		return nil, err
	}
	addresses, err := build(cfg.Upstreams.Addresses)
	if err != nil {
		return nil, err
	}

	for _, c := range []*upstream.Client{users, addresses} {
		logger.Infof(context.Background(), "upstream %s at %s (timeout %s)", c.Name(), c.Base(), c.Timeout())
	}
	return &Upstreams{Users: users, Addresses: addresses}, nil
}

// ProvideRedis connects to redis when configured. The client is nil otherwise.
func ProvideRedis(cfg *config.Config) (*redis.Client, func(), error) {
	var redisCfg *config.Redis
	if cfg.Data != nil {
		redisCfg = cfg.Data.Redis
	}

	rc, err := cache.NewRedis(context.Background(), redisCfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if rc != nil {
			_ = rc.Close()
		}
	}
	return rc, cleanup, nil
}

// ProvideUserCache wraps rc as the user cache.
func ProvideUserCache(cfg *config.Config, rc *redis.Client) *cache.Users {
	ttl := 30 * time.Second
	if cfg.Data != nil && cfg.Data.Redis != nil && cfg.Data.Redis.TTL > 0 {
		ttl = cfg.Data.Redis.TTL
	}
	return cache.NewUsers(rc, ttl)
}

// ProvideAggregator creates the aggregator service.
func ProvideAggregator(u *Upstreams, userCache *cache.Users) *aggregator.Service {
	return aggregator.New(upstream.NewUsers(u.Users), upstream.NewAddresses(u.Addresses), userCache)
}

// ProvideAddressProxy creates the address forwarder.
func ProvideAddressProxy(u *Upstreams) *proxy.Addresses {
	return proxy.NewAddresses(u.Addresses)
}

// ProvideLimiter bounds in-flight requests when MaxInFlight is set.
func ProvideLimiter(cfg *config.Config) (*concurrency.Limiter, error) {
	if cfg.MaxInFlight == 0 {
		return nil, nil
	}
	return concurrency.NewLimiter(int32(cfg.MaxInFlight))
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(svc *aggregator.Service, addresses *proxy.Addresses, u *Upstreams, resolver *discovery.Consul) *handler.Handler {
	var stats handler.StatsProvider
	if resolver != nil {
		stats = resolver
	}
	return handler.New(svc, addresses, u.All(), stats)
}
