package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpgate/internal/auth"
	"github.com/shandysiswandi/otpgate/internal/auth/inbound"
)

func (a *App) initModules() {
	if !a.config.GetBool("modules.auth.enabled") {
		slog.Warn("module auth is disabled")
		return
	}

	m, err := auth.New(a.ctx, auth.Dependency{
		DBConn:     a.dbConn,
		CacheConn:  a.cacheConn,
		Pool:       a.pool,
		Router:     a.router,
		Messaging:  a.messaging,
		Config:     a.config,
		Instrument: a.ins,
		HMAC:       a.hmac,
		Clock:      a.clock,
		Validator:  a.validator,
		JWT:        a.jwt,
	})
	if err != nil {
		slog.Error("failed to init module auth", "error", err)
		os.Exit(1)
	}
	a.auth = m
}

// publicEndpoints is the union of every module's unauthenticated routes.
func publicEndpoints() map[string][]string {
	out := map[string][]string{
		"GET": {"/health", "/metrics"},
	}
	for method, paths := range inbound.PublicEndpoints {
		out[method] = append(out[method], paths...)
	}
	return out
}
