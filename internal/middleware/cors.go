package middleware

import (
	"net/http"
	"strings"
)

const (
	allowMethods = "GET, POST, PUT, OPTIONS"
	allowHeaders = "Content-Type, Authorization, X-Request-Id"
)

// CORS 返回跨域中间件。allowed 为空时放行所有来源；预检请求直接返回 200。
func CORS(allowed []string) func(http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		origins[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := w.Header()
			if len(origins) == 0 {
				header.Set("Access-Control-Allow-Origin", "*")
			} else if origin := r.Header.Get("Origin"); origin != "" {
				header.Add("Vary", "Origin")
				if _, ok := origins[origin]; ok {
					header.Set("Access-Control-Allow-Origin", origin)
				}
			}
			header.Set("Access-Control-Allow-Methods", allowMethods)
			header.Set("Access-Control-Allow-Headers", allowHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OriginAllowed reports whether a browser origin may connect. It mirrors the
// CORS policy for endpoints that bypass it, such as WebSocket upgrades.
func OriginAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 || origin == "" {
		return true
	}
	for _, o := range allowed {
		if strings.TrimRight(o, "/") == origin {
			return true
		}
	}
	return false
}
