package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
)

type RequestChallengeInput struct {
	MobileNumber string `json:"mobile_number" validate:"required,mobile"`
}

type RequestChallengeOutput struct {
	ExpiresIn time.Duration
}

// RequestChallenge stores a fresh code for a registered identity and hands
// delivery to the dispatcher. A new request replaces any outstanding code.
// Delivery failures never fail the request.
func (s *Usecase) RequestChallenge(ctx context.Context, in RequestChallengeInput) (*RequestChallengeOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestChallenge")
	defer span.End()

	in.MobileNumber = strings.TrimSpace(in.MobileNumber)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.repoDB.GetIdentity(ctx, in.MobileNumber); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "challenge requested for unregistered identity", "mobile", in.MobileNumber)
			return nil, ErrIdentityNotRegistered
		}
		slog.ErrorContext(ctx, "failed to repo get identity", "mobile", in.MobileNumber, "error", err)
		return nil, storeError(err)
	}

	code, err := s.code.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.challengeTTL()
	if err := s.store.Put(ctx, in.MobileNumber, s.digest.Digest(code), ttl); err != nil {
		slog.ErrorContext(ctx, "failed to store challenge", "mobile", in.MobileNumber, "error", err)
		return nil, storeError(err)
	}
	challengesIssued.Inc()

	if !s.dispatcher.Dispatch(ctx, entity.DeliveryEvent{
		Mobile:        in.MobileNumber,
		Code:          code,
		CorrelationID: instrument.GetCorrelationID(ctx),
	}) {
		slog.WarnContext(ctx, "otp delivery not scheduled", "mobile", in.MobileNumber)
	}

	return &RequestChallengeOutput{ExpiresIn: ttl}, nil
}
