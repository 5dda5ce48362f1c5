package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	challengesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "otpgate_challenges_issued_total",
		Help: "The total number of OTP challenges stored",
	})

	challengeVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "otpgate_challenge_verifications_total",
		Help: "The total number of OTP verification attempts by outcome",
	}, []string{"outcome"})

	tokenValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "otpgate_token_validations_total",
		Help: "The total number of token validations by result",
	}, []string{"valid"})
)

const (
	outcomeSuccess       = "success"
	outcomeInvalid       = "invalid"
	outcomeUnregistered  = "unregistered"
	outcomeStoreFailure  = "store_failure"
	outcomeIssueFailure  = "issue_failure"
	outcomeInvalidFormat = "invalid_format"
)
