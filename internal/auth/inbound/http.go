package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type uc interface {
	RequestChallenge(ctx context.Context, in usecase.RequestChallengeInput) (*usecase.RequestChallengeOutput, error)
	VerifyChallenge(ctx context.Context, in usecase.VerifyChallengeInput) (*entity.Session, error)
	ValidateToken(ctx context.Context, in usecase.ValidateTokenInput) bool
	Me(ctx context.Context) (*usecase.MeOutput, error)
}

type keySet interface {
	JWKS() jwt.JWKS
}

// PublicEndpoints lists the routes reachable without a bearer token.
var PublicEndpoints = map[string][]string{
	http.MethodPost: {"/api/auth/otp", "/api/auth/verify", "/api/auth/validate"},
	http.MethodGet:  {"/.well-known/jwks.json"},
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, keys keySet) {
	end := &HTTPEndpoint{uc: uc, keys: keys}

	r.POST("/api/auth/otp", end.RequestOTP)
	r.POST("/api/auth/verify", end.VerifyOTP)
	r.POST("/api/auth/validate", end.ValidateToken)
	r.GET("/api/auth/me", end.Me) // need authenticated

	r.GETRaw("/.well-known/jwks.json", http.HandlerFunc(end.JWKS))
}
