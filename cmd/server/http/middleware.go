package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/prashantkr001/catalog-go/internal/pkg/logger"
)

// accessLog is only wired in environments with access logging enabled (dev, ci).
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := logger.Green(fmt.Sprintf("[http]::%d", ww.Status()))
		if ww.Status() >= http.StatusBadRequest {
			status = logger.Red(fmt.Sprintf("[http]::%d", ww.Status()))
		}

		logger.Info(fmt.Sprintf(
			"%s %s %s %s",
			status,
			r.Method,
			logger.Cyan(r.URL.RequestURI()),
			time.Since(start),
		))
	})
}
