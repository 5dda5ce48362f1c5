package inbound

import (
	"net/http"

	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes the OTP login flow over HTTP.
type HTTPEndpoint struct {
	uc   uc
	keys keySet
}

// RequestOTP issues a one-time code for a registered mobile number.
// @Summary Request OTP
// @Description Generates a one-time code and sends it to the registered mobile number.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RequestOTPRequest true "OTP request payload"
// @Success 200 {object} router.successResponse{data=RequestOTPResponse} "OTP sent"
// @Failure 400 {object} router.errorResponse "User not registered" example:{"message":"User not registered. Please register first using /api/users/register.","error":{"registration_link":"/api/users/register"}}
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 503 {object} router.errorResponse "Service temporarily unavailable"
// @Router /api/auth/otp [post]
func (h *HTTPEndpoint) RequestOTP(r *router.Request) (any, error) {
	var req RequestOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestChallenge(r.Context(), usecase.RequestChallengeInput{
		MobileNumber: req.MobileNumber,
	})
	if err != nil {
		return nil, err
	}

	return RequestOTPResponse{ExpiresIn: int64(resp.ExpiresIn.Seconds())}, nil
}

// VerifyOTP exchanges a valid code for a signed session token.
// @Summary Verify OTP
// @Description Consumes the outstanding code and returns an RS256 token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "OTP verification payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "Login successful"
// @Failure 400 {object} router.errorResponse "Invalid or expired OTP"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 503 {object} router.errorResponse "Service temporarily unavailable"
// @Router /api/auth/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	sess, err := h.uc.VerifyChallenge(r.Context(), usecase.VerifyChallengeInput{
		MobileNumber: req.MobileNumber,
		OTPCode:      req.OTPCode,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{
		Token:             sess.Token,
		FirstVerification: sess.FirstVerification,
		ExpiresAt:         sess.ExpiresAt,
	}, nil
}

// ValidateToken reports whether a token was issued by this service and is still live.
// @Summary Validate token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ValidateTokenRequest true "Token payload"
// @Success 200 {object} router.successResponse{data=ValidateTokenResponse} "Validation result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Router /api/auth/validate [post]
func (h *HTTPEndpoint) ValidateToken(r *router.Request) (any, error) {
	var req ValidateTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return ValidateTokenResponse{
		Valid: h.uc.ValidateToken(r.Context(), usecase.ValidateTokenInput{Token: req.Token}),
	}, nil
}

// Me returns the identity carried by the presented bearer token.
// @Summary Current identity
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=MeResponse} "Current identity"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Router /api/auth/me [get]
func (h *HTTPEndpoint) Me(r *router.Request) (any, error) {
	out, err := h.uc.Me(r.Context())
	if err != nil {
		return nil, err
	}

	return MeResponse{
		MobileNumber: out.Mobile,
		Role:         out.Role.String(),
		Verified:     out.Verified,
		ExpiresAt:    out.ExpiresAt,
	}, nil
}

// JWKS publishes the token verification key.
// @Summary JSON Web Key Set
// @Tags Auth
// @Produce json
// @Success 200 {object} jwt.JWKS
// @Router /.well-known/jwks.json [get]
func (h *HTTPEndpoint) JWKS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	router.WriteJSON(w, h.keys.JWKS(), http.StatusOK)
}
