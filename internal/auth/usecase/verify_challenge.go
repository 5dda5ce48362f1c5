package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

type VerifyChallengeInput struct {
	MobileNumber string `json:"mobile_number" validate:"required,mobile"`
	OTPCode      string `json:"otp_code" validate:"required,otp"`
}

// VerifyChallenge consumes the outstanding code and, on a match, issues a
// session token. Only one of any number of concurrent calls with the right
// code can succeed: the store's compare-and-delete decides.
func (s *Usecase) VerifyChallenge(ctx context.Context, in VerifyChallengeInput) (*entity.Session, error) {
	ctx, span := s.startSpan(ctx, "VerifyChallenge")
	defer span.End()

	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.OTPCode = strings.TrimSpace(in.OTPCode)

	if err := s.validator.Validate(in); err != nil {
		challengeVerifications.WithLabelValues(outcomeInvalidFormat).Inc()
		return nil, goerror.NewInvalidInput(err)
	}

	ok, err := s.store.TryConsume(ctx, in.MobileNumber, s.digest.Digest(in.OTPCode))
	if err != nil {
		challengeVerifications.WithLabelValues(outcomeStoreFailure).Inc()
		slog.ErrorContext(ctx, "failed to consume challenge", "mobile", in.MobileNumber, "error", err)
		return nil, storeError(err)
	}
	if !ok {
		challengeVerifications.WithLabelValues(outcomeInvalid).Inc()
		slog.WarnContext(ctx, "challenge verification failed", "mobile", in.MobileNumber)
		return nil, ErrInvalidOrExpiredChallenge
	}

	ident, err := s.repoDB.GetIdentity(ctx, in.MobileNumber)
	if errors.Is(err, goerror.ErrNotFound) {
		challengeVerifications.WithLabelValues(outcomeUnregistered).Inc()
		slog.WarnContext(ctx, "identity removed between challenge and verification", "mobile", in.MobileNumber)
		return nil, ErrIdentityNotRegistered
	}
	if err != nil {
		challengeVerifications.WithLabelValues(outcomeStoreFailure).Inc()
		slog.ErrorContext(ctx, "failed to repo get identity", "mobile", in.MobileNumber, "error", err)
		return nil, storeError(err)
	}

	first, err := s.repoDB.MarkVerified(ctx, in.MobileNumber)
	if err != nil {
		challengeVerifications.WithLabelValues(outcomeStoreFailure).Inc()
		slog.ErrorContext(ctx, "failed to repo mark identity verified", "mobile", in.MobileNumber, "error", err)
		return nil, storeError(err)
	}

	lifetime := s.tokenLifetime()
	token, err := s.jwt.Issue(ident.Mobile, map[string]any{
		"role":     ident.Role.String(),
		"verified": true,
	}, lifetime)
	if err != nil {
		challengeVerifications.WithLabelValues(outcomeIssueFailure).Inc()
		slog.ErrorContext(ctx, "failed to issue token", "mobile", in.MobileNumber, "error", err)
		return nil, goerror.NewServer(err)
	}

	challengeVerifications.WithLabelValues(outcomeSuccess).Inc()
	if first {
		slog.InfoContext(ctx, "identity verified for the first time", "mobile", in.MobileNumber)
	}

	return &entity.Session{
		Token:             token,
		FirstVerification: first,
		ExpiresAt:         s.clock.Now().Add(lifetime),
	}, nil
}
