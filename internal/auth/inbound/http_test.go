package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type fakeUsecase struct {
	lastVerify usecase.VerifyChallengeInput
}

func (f *fakeUsecase) RequestChallenge(_ context.Context, in usecase.RequestChallengeInput) (*usecase.RequestChallengeOutput, error) {
	switch in.MobileNumber {
	case "9999999999":
		return &usecase.RequestChallengeOutput{ExpiresIn: 3 * time.Minute}, nil
	case "123":
		return nil, goerror.NewInvalidInput(nil, "mobile_number", "mobile_number must be exactly 10 digits")
	default:
		return nil, usecase.ErrIdentityNotRegistered
	}
}

func (f *fakeUsecase) VerifyChallenge(_ context.Context, in usecase.VerifyChallengeInput) (*entity.Session, error) {
	f.lastVerify = in
	if in.OTPCode != "123456" {
		return nil, usecase.ErrInvalidOrExpiredChallenge
	}
	return &entity.Session{
		Token:             "signed.jwt.token",
		FirstVerification: true,
		ExpiresAt:         time.Unix(1_700_003_600, 0).UTC(),
	}, nil
}

func (f *fakeUsecase) ValidateToken(_ context.Context, in usecase.ValidateTokenInput) bool {
	return in.Token == "good"
}

func (f *fakeUsecase) Me(ctx context.Context) (*usecase.MeOutput, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, usecase.ErrAuthenticationRequired
	}
	return &usecase.MeOutput{Mobile: clm.Subject, Role: entity.RoleUser, Verified: true}, nil
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (jwt.Claims, error) {
	if token != "good" {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	var c jwt.Claims
	c.Subject = "9999999999"
	return c, nil
}

type fakeKeys struct{}

func (fakeKeys) JWKS() jwt.JWKS {
	return jwt.JWKS{Keys: []jwt.JWK{{Kty: "RSA", Kid: "kid-1", Alg: "RS256", Use: "sig", N: "AQAB", E: "AQAB"}}}
}

type fixedID struct{}

func (fixedID) Generate() string { return "cid-1" }

func newServer(t *testing.T) (*router.Router, *fakeUsecase) {
	t.Helper()
	r := router.NewRouter(router.Config{
		UUID:            fixedID{},
		JWT:             fakeVerifier{},
		Instrument:      instrument.NewNoop(),
		PublicEndpoints: PublicEndpoints,
	})
	uc := &fakeUsecase{}
	RegisterHTTPEndpoint(r, uc, fakeKeys{})
	return r, uc
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, m
}

func TestRequestOTP(t *testing.T) {
	h, _ := newServer(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
		check    func(t *testing.T, m map[string]any)
	}{
		{
			name:     "Registered",
			body:     `{"mobile_number":"9999999999"}`,
			wantCode: http.StatusOK,
			wantMsg:  "OTP sent successfully to your registered mobile number.",
			check: func(t *testing.T, m map[string]any) {
				data := m["data"].(map[string]any)
				if data["expires_in"] != float64(180) {
					t.Fatalf("expected expires_in 180, got %v", data["expires_in"])
				}
			},
		},
		{
			name:     "Unregistered",
			body:     `{"mobile_number":"1111111111"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "User not registered. Please register first using /api/users/register.",
			check: func(t *testing.T, m map[string]any) {
				e := m["error"].(map[string]any)
				if e["registration_link"] != "/api/users/register" {
					t.Fatalf("expected registration link, got %v", e)
				}
			},
		},
		{
			name:     "Validation",
			body:     `{"mobile_number":"123"}`,
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "Validation error",
		},
		{
			name:     "MalformedBody",
			body:     `{"mobile_number":`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid request body",
		},
		{
			name:     "UnknownField",
			body:     `{"mobile":"9999999999"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, m := do(t, h, http.MethodPost, "/api/auth/otp", tt.body)
			if code != tt.wantCode || m["message"] != tt.wantMsg {
				t.Fatalf("expected %d %q, got %d %v", tt.wantCode, tt.wantMsg, code, m)
			}
			if tt.check != nil {
				tt.check(t, m)
			}
		})
	}
}

func TestVerifyOTP(t *testing.T) {
	// Arrange
	h, uc := newServer(t)

	// Act
	code, m := do(t, h, http.MethodPost, "/api/auth/verify", `{"mobile_number":"9999999999","otp_code":"123456"}`)
	badCode, bad := do(t, h, http.MethodPost, "/api/auth/verify", `{"mobile_number":"9999999999","otp_code":"654321"}`)

	// Assert
	if code != http.StatusOK || m["message"] != "Login successful" {
		t.Fatalf("expected login success, got %d %v", code, m)
	}
	data := m["data"].(map[string]any)
	if data["token"] != "signed.jwt.token" || data["first_verification"] != true {
		t.Fatalf("unexpected data %v", data)
	}
	if data["expires_at"] != "2023-11-14T23:13:20Z" {
		t.Fatalf("expected token expiry in response, got %v", data["expires_at"])
	}
	if uc.lastVerify.OTPCode != "654321" || uc.lastVerify.MobileNumber != "9999999999" {
		t.Fatalf("unexpected usecase input %+v", uc.lastVerify)
	}
	if badCode != http.StatusBadRequest || bad["message"] != "Invalid or expired OTP" {
		t.Fatalf("expected invalid otp, got %d %v", badCode, bad)
	}
}

func TestValidateToken(t *testing.T) {
	h, _ := newServer(t)

	for token, want := range map[string]bool{"good": true, "bad": false, "": false} {
		code, m := do(t, h, http.MethodPost, "/api/auth/validate", `{"token":"`+token+`"}`)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if got := m["data"].(map[string]any)["valid"]; got != want {
			t.Fatalf("token %q: expected valid=%v, got %v", token, want, got)
		}
	}
}

func TestMe(t *testing.T) {
	h, _ := newServer(t)

	t.Run("NoToken", func(t *testing.T) {
		code, _ := do(t, h, http.MethodGet, "/api/auth/me", "")
		if code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", code)
		}
	})

	t.Run("BadToken", func(t *testing.T) {
		code, _ := do(t, h, http.MethodGet, "/api/auth/me", "", "Authorization", "Bearer nope")
		if code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", code)
		}
	})

	t.Run("Bearer", func(t *testing.T) {
		code, m := do(t, h, http.MethodGet, "/api/auth/me", "", "Authorization", "Bearer good")
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d %v", code, m)
		}
		data := m["data"].(map[string]any)
		if data["mobile_number"] != "9999999999" || data["role"] != "USER" {
			t.Fatalf("unexpected data %v", data)
		}
	})
}

func TestJWKS(t *testing.T) {
	h, _ := newServer(t)

	code, m := do(t, h, http.MethodGet, "/.well-known/jwks.json", "")

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	keys, _ := m["keys"].([]any)
	if len(keys) != 1 || keys[0].(map[string]any)["kid"] != "kid-1" {
		t.Fatalf("unexpected jwks %v", m)
	}
}
