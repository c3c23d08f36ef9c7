package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
)

// Recovery returns middleware that converts handler panics into 500 responses.
// A panicking request must never take the process down with it.
func Recovery(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered in HTTP handler",
						logging.Any("panic", rec),
						logging.String("method", r.Method),
						logging.String("path", r.URL.Path),
						logging.String("stack", string(debug.Stack())))

					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"code":"COMMON_001","message":"internal server error"}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

//Personal.AI order the ending
