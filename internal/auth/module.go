package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/auth/inbound"
	"github.com/shandysiswandi/otpgate/internal/auth/outbound/cache"
	"github.com/shandysiswandi/otpgate/internal/auth/outbound/db"
	"github.com/shandysiswandi/otpgate/internal/auth/outbound/mq"
	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// ErrUnknownStore is returned when modules.auth.store names no known backend.
var ErrUnknownStore = errors.New("auth: unknown challenge store")

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  redis.UniversalClient      // required when modules.auth.store is redis
	Pool       *goroutine.Pool            `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	HMAC       *hash.HMACSHA256           `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        *jwt.RS256                 `validate:"required"`
}

// Module is the running auth module. Close releases what the module owns;
// shared connections stay with the caller.
type Module struct {
	db      *db.DB
	pingers map[string]func(context.Context) error
	closers []io.Closer
}

func New(ctx context.Context, dep Dependency) (*Module, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	m := &Module{
		db:      db.NewDB(dep.DBConn, dep.Instrument),
		pingers: map[string]func(context.Context) error{},
	}
	m.pingers["database"] = m.db.Ping

	if dep.Config.GetBool("modules.auth.migrate") {
		if err := m.db.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("auth: migrate: %w", err)
		}
	}

	store, err := m.challengeStore(dep)
	if err != nil {
		return nil, err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     m.db,
		Store:      store,
		Dispatcher: mq.NewDispatcher(dep.Pool, dep.Messaging, dep.Config.GetString("modules.auth.delivery_topic"), dep.Instrument),
		Code:       otp.NewNumeric(otp.ParseDigits(dep.Config.GetInt("modules.auth.otp_digits"))),
		Digest:     dep.HMAC,
		JWT:        dep.JWT,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.JWT.Keypair())

	return m, nil
}

type store interface {
	Put(ctx context.Context, mobile, digest string, ttl time.Duration) error
	TryConsume(ctx context.Context, mobile, digest string) (bool, error)
}

func (m *Module) challengeStore(dep Dependency) (store, error) {
	switch kind := strings.ToLower(strings.TrimSpace(dep.Config.GetString("modules.auth.store"))); kind {
	case StoreRedis, "":
		if dep.CacheConn == nil {
			return nil, fmt.Errorf("%w: redis store needs a redis connection", ErrUnknownStore)
		}
		rs := cache.NewRedis(dep.CacheConn, dep.Instrument)
		m.pingers["redis"] = rs.Ping
		return rs, nil
	case StoreMemory:
		sweep := dep.Config.GetSecond("modules.auth.memory_sweep_seconds")
		if sweep <= 0 {
			sweep = time.Minute
		}
		ms := cache.NewMemory(dep.Clock, dep.Instrument, sweep)
		m.closers = append(m.closers, ms)
		return ms, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, kind)
	}
}

// Ping checks every backing service of the module and returns the failures by name.
func (m *Module) Ping(ctx context.Context) map[string]error {
	out := make(map[string]error, len(m.pingers))
	for name, ping := range m.pingers {
		out[name] = ping(ctx)
	}
	return out
}

func (m *Module) Close() error {
	var errs []error
	for _, c := range m.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
