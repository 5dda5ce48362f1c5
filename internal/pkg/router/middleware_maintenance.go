package router

import (
	"net/http"
)

// middlewareMaintenance answers 503 for the configured route patterns
// (app.maintenance.endpoints). The list is read once at startup.
func middlewareMaintenance(endpoints []string) Middleware {
	blocked := make(map[string]struct{}, len(endpoints))
	for _, e := range endpoints {
		blocked[e] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := blocked[matchedRoutePath(r)]; ok {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
