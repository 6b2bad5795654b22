package gateway

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/riskcheck/console/internal/client/session"
	"github.com/riskcheck/console/internal/common"
	"github.com/riskcheck/console/internal/logging"
	"github.com/riskcheck/console/internal/routes"
)

// gate applies the route rules using the presence of the session cookie.
// Static assets pass untouched.
func (s *Server) gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if routes.IsSkipped(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		_, authenticated := session.FromRequest(r)
		if d := routes.Decide(r.URL.Path, authenticated); !d.Pass() {
			s.redirect(w, r, d.Redirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// redirect keeps the query string, as a cloned request URL would.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, path string) {
	target := *r.URL
	target.Path = path
	target.RawPath = ""
	http.Redirect(w, r, target.RequestURI(), http.StatusTemporaryRedirect)
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(common.RequestIDHeaderName, id)
		}
		w.Header().Set(common.RequestIDHeaderName, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
