package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultChallengeTTL  = 3 * time.Minute
	defaultTokenLifetime = time.Hour

	// RegistrationLink is where unknown identities are sent to sign up.
	RegistrationLink = "/api/users/register"
)

var (
	// ErrIdentityNotRegistered is returned when a challenge is requested for an unknown mobile number.
	ErrIdentityNotRegistered = goerror.NewBusiness(
		"User not registered. Please register first using "+RegistrationLink+".",
		goerror.CodeBadRequest,
		"registration_link", RegistrationLink,
	)

	// ErrInvalidOrExpiredChallenge covers a wrong, absent, consumed or expired code alike.
	ErrInvalidOrExpiredChallenge = goerror.NewBusiness("Invalid or expired OTP", goerror.CodeBadRequest)

	// ErrAuthenticationRequired is returned by Me when no verified token is in context.
	ErrAuthenticationRequired = goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
)

type repoDB interface {
	// GetIdentity returns goerror.ErrNotFound for an unknown mobile number.
	GetIdentity(ctx context.Context, mobile string) (*entity.Identity, error)
	// MarkVerified sets the verified flag and reports whether this call flipped it.
	MarkVerified(ctx context.Context, mobile string) (bool, error)
}

type challengeStore interface {
	Put(ctx context.Context, mobile, digest string, ttl time.Duration) error
	TryConsume(ctx context.Context, mobile, digest string) (bool, error)
}

type dispatcher interface {
	// Dispatch enqueues delivery without blocking and reports whether it was accepted.
	Dispatch(ctx context.Context, ev entity.DeliveryEvent) bool
}

type codeGenerator interface {
	Generate() (string, error)
}

type digester interface {
	Digest(str string) string
}

type tokenIssuer interface {
	Issue(subject string, claims map[string]any, lifetime time.Duration) (string, error)
	Validate(token string) bool
}

type Usecase struct {
	repoDB     repoDB
	store      challengeStore
	dispatcher dispatcher
	code       codeGenerator
	digest     digester
	jwt        tokenIssuer
	validator  validator.Validator
	cfg        config.Config
	clock      clock.Clocker
	ins        instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Store      challengeStore
	Dispatcher dispatcher
	Code       codeGenerator
	Digest     digester
	JWT        tokenIssuer
	Validator  validator.Validator
	Config     config.Config
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:     dep.RepoDB,
		store:      dep.Store,
		dispatcher: dep.Dispatcher,
		code:       dep.Code,
		digest:     dep.Digest,
		jwt:        dep.JWT,
		validator:  dep.Validator,
		cfg:        dep.Config,
		clock:      dep.Clock,
		ins:        dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

func (s *Usecase) challengeTTL() time.Duration {
	if ttl := s.cfg.GetSecond("modules.auth.otp_ttl_seconds"); ttl > 0 {
		return ttl
	}
	return defaultChallengeTTL
}

func (s *Usecase) tokenLifetime() time.Duration {
	if lt := s.cfg.GetSecond("jwt.expiration_seconds"); lt > 0 {
		return lt
	}
	return defaultTokenLifetime
}

// storeError keeps an unreachable store distinct from "not found": callers get 503, not 400.
func storeError(err error) error {
	if errors.Is(err, goerror.ErrUnavailable) {
		return goerror.NewUnavailable(err)
	}
	return goerror.NewServer(err)
}
