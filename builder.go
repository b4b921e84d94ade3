package flexauth

import (
	"errors"

	"github.com/flexauth/flexauth/jwt"
	"github.com/flexauth/flexauth/session"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Construction is allocation-only until
// Build, which clones and validates the config exactly once; nothing in
// the request path reads mutable shared state afterwards.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	users     UserProvider
	auditSink AuditSink
	resolve   UsernameResolver

	built bool
}

// New returns a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration. The config is cloned; later
// mutations by the caller have no effect.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the Redis client backing session authentication.
// Optional: without it the engine only does token authentication.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserProvider supplies the identity-subsystem collaborator.
func (b *Builder) WithUserProvider(users UserProvider) *Builder {
	b.users = users
	return b
}

// WithAuditSink supplies the audit event consumer. Ignored unless audit is
// enabled in the config.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithUsernameResolver overrides how the username claim value is resolved.
func (b *Builder) WithUsernameResolver(resolve UsernameResolver) *Builder {
	b.resolve = resolve
	return b
}

// WithMetricsEnabled toggles the counter registry.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and returns a ready Engine. A Builder
// can be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.users == nil {
		return nil, errors.New("user provider required")
	}

	manager, err := jwt.NewManager(jwt.Config{
		SigningMethod: jwt.SigningMethod(cfg.Token.SigningMethod),
		PrivateKey:    cfg.Token.PrivateKey,
		PublicKey:     cfg.Token.PublicKey,
		Leeway:        cfg.Token.Leeway,
		Audience:      cfg.Token.Audience,
		Issuer:        cfg.Token.Issuer,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  cfg,
		tokens:  manager,
		users:   b.users,
		resolve: b.resolve,
		metrics: NewMetrics(cfg.Metrics),
		audit:   newDispatcher(cfg.Audit, b.auditSink),
	}

	if b.redis != nil && cfg.Session.CookieName != "" {
		store := session.NewStore(b.redis, cfg.Session.RedisPrefix, cfg.Session.TTL, cfg.Session.SlidingExpiration)
		engine.sessions = &SessionAuthenticator{
			store:   store,
			cfg:     cfg.Session,
			metrics: engine.metrics,
			audit:   engine.audit,
		}
	}

	b.built = true
	return engine, nil
}
