package ctxlogger

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// context registration

var loggerKey int

func WithLogger(ctx context.Context, l logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, &loggerKey, l)
}

func GetLogger(ctx context.Context) logrus.FieldLogger {
	if v := ctx.Value(&loggerKey); v != nil {
		return v.(logrus.FieldLogger)
	}

	return logrus.StandardLogger()
}

var requestIDKey int

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, &requestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(&requestIDKey); v != nil {
		return v.(string)
	}

	return ""
}

// middleware

func Register(l logrus.FieldLogger) func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	return func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		next(rw, r.WithContext(WithLogger(r.Context(), l)))
	}
}

// Log tags each request with an id, attaches a request-scoped logger to the
// context and logs the start and end of the request.
func Log() func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	return func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		requestID := r.Header.Get("x-request-id")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		rw.Header().Set("x-request-id", requestID)

		l := GetLogger(r.Context()).WithFields(logrus.Fields{
			"http.request_id": requestID,
			"http.method":     r.Method,
			"http.path":       r.URL.Path,
			"http.host":       r.Host,
			"http.referer":    r.Header.Get("referer"),
			"http.user_agent": r.Header.Get("user-agent"),
		})

		start := time.Now()

		defer func() {
			fields := logrus.Fields{"http.duration": time.Since(start)}

			if nrw, ok := rw.(interface {
				Status() int
				Size() int
			}); ok {
				fields["http.status_code"] = nrw.Status()
				fields["http.response_size"] = nrw.Size()
			}

			l.WithFields(fields).Info("http request finished")
		}()

		l.Info("http request started")

		next(rw, r.WithContext(WithRequestID(WithLogger(r.Context(), l), requestID)))
	}
}
