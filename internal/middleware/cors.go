package middleware

import (
	"net/http"
)

const allowedHeaders = "authorization, x-client-info, apikey, content-type"

// CORS restricts the API to the configured frontend origin. The browser
// client sends supabase-style headers (x-client-info, apikey) alongside the
// usual ones, so they stay on the allow list. Paths listed in openPaths are
// callable from any origin; the email dispatch endpoint needs that.
func CORS(allowedOrigin string, openPaths ...string) func(http.Handler) http.Handler {
	open := make(map[string]struct{}, len(openPaths))
	for _, p := range openPaths {
		open[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := open[r.URL.Path]; ok {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				if r.Method == http.MethodOptions {
					w.Header().Set("Access-Control-Allow-Methods", "POST,OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
					w.WriteHeader(http.StatusOK)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin != "" && origin == allowedOrigin {
				w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
				w.Header().Set("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
