package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/auth"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

// closer releases one resource during Stop.
type closer struct {
	name string
	fn   func(context.Context) error
}

// App owns every process-wide dependency of the OTP gateway and its lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	config config.Config
	ins    instrument.Instrumentation

	pool      *goroutine.Pool
	validator validator.Validator
	clock     clock.Clocker
	hmac      *hash.HMACSHA256
	uuid      *uid.UUID
	jwt       *jwt.RS256

	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	messaging messaging.Publisher

	router     *router.Router
	httpServer *http.Server

	auth *auth.Module

	// closers run top to bottom after the dispatcher pool drains.
	closers []closer
}

// New builds the application. Any step that cannot complete terminates the
// process, so a returned App is always fully wired.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{ctx: ctx, cancel: cancel}

	for _, step := range []func(){
		a.initConfig,
		a.initInstrument,
		a.initLibraries,
		a.initJWT,
		a.initDatabase,
		a.initCache,
		a.initMessaging,
		a.initHTTPServer,
		a.initModules,
		a.initClosers,
	} {
		step()
	}

	return a
}
