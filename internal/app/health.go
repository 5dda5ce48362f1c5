package app

import (
	"context"
	"net/http"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if a.auth == nil {
		router.WriteJSON(w, healthResponse{Status: "ok"}, http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: map[string]string{}}
	code := http.StatusOK
	for name, err := range a.auth.Ping(ctx) {
		if err != nil {
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "up"
	}

	router.WriteJSON(w, resp, code)
}
