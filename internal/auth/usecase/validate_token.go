package usecase

import (
	"context"
	"strconv"
	"strings"
)

type ValidateTokenInput struct {
	Token string
}

// ValidateToken reports whether token is a live token signed by this service.
// Every failure reason collapses to false.
func (s *Usecase) ValidateToken(ctx context.Context, in ValidateTokenInput) bool {
	_, span := s.startSpan(ctx, "ValidateToken")
	defer span.End()

	token := strings.TrimSpace(in.Token)
	valid := token != "" && s.jwt.Validate(token)
	tokenValidations.WithLabelValues(strconv.FormatBool(valid)).Inc()

	return valid
}
