package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
)

type MeOutput struct {
	Mobile    string
	Role      entity.Role
	Verified  bool
	ExpiresAt time.Time
}

// Me describes the caller from the token already verified by the router.
func (s *Usecase) Me(ctx context.Context) (*MeOutput, error) {
	_, span := s.startSpan(ctx, "Me")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, ErrAuthenticationRequired
	}

	out := &MeOutput{
		Mobile:   clm.Subject,
		Role:     entity.ParseRole(clm.String("role")),
		Verified: clm.Bool("verified"),
	}
	if clm.ExpiresAt != nil {
		out.ExpiresAt = clm.ExpiresAt.Time
	}

	return out, nil
}
