package environment

import "net/http"

// Middleware attaches the given environment tag to all request contexts so
// downstream handlers and the logger can read it without explicit plumbing.
func Middleware(env Environment) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithContext(r.Context(), env)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
