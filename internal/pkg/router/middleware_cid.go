package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
)

const (
	// HeaderCorrelationID is echoed on every response and forwarded with OTP deliveries.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted as a fallback from proxies that set it instead.
	HeaderRequestID = "X-Request-ID"

	maxCIDLen = 128
)

type idGenerator interface {
	Generate() string
}

// inboundCID returns the first usable id found in the request headers.
// Values carrying line breaks are ignored; long values are truncated.
func inboundCID(r *http.Request) string {
	for _, h := range [...]string{HeaderCorrelationID, HeaderRequestID} {
		v := r.Header.Get(h)
		if strings.ContainsAny(v, "\r\n") {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			return v[:min(len(v), maxCIDLen)]
		}
	}
	return ""
}

// middlewareCorrelationID stores the request's correlation id in its context,
// minting one with ids when the caller sent none.
func middlewareCorrelationID(ids idGenerator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := inboundCID(r)
			if cid == "" && ids != nil {
				cid = ids.Generate()
			}
			if cid == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(HeaderCorrelationID, cid)
			next.ServeHTTP(w, r.WithContext(instrument.SetCorrelationID(r.Context(), cid)))
		})
	}
}
