package inbound

import "time"

type RequestOTPRequest struct {
	MobileNumber string `json:"mobile_number"`
}

type RequestOTPResponse struct {
	ExpiresIn int64 `json:"expires_in"`
}

func (RequestOTPResponse) Message() string {
	return "OTP sent successfully to your registered mobile number."
}

type VerifyOTPRequest struct {
	MobileNumber string `json:"mobile_number"`
	OTPCode      string `json:"otp_code"`
}

type VerifyOTPResponse struct {
	Token             string    `json:"token"`
	FirstVerification bool      `json:"first_verification"`
	ExpiresAt         time.Time `json:"expires_at"`
}

func (VerifyOTPResponse) Message() string {
	return "Login successful"
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

type ValidateTokenResponse struct {
	Valid bool `json:"valid"`
}

type MeResponse struct {
	MobileNumber string    `json:"mobile_number"`
	Role         string    `json:"role"`
	Verified     bool      `json:"verified"`
	ExpiresAt    time.Time `json:"expires_at"`
}
