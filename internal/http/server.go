// Package http is the thin delivery layer: JSON and file downloads over the
// standard mux. All bookkeeping rules live in the service; handlers only
// parse, delegate and encode.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"asdgest/internal/services"
)

// Mailer sends a rendered receipt to one recipient. Nil means email delivery
// is not configured.
type Mailer interface {
	SendDocument(ctx context.Context, recipient, subject, body string, document []byte, filename string) error
}

type Server struct {
	http.Server
	svc         *services.Service
	mailer      Mailer
	logger      *slog.Logger
	rateLimiter *rateLimiter
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc *services.Service, mailer Mailer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	s := &Server{
		Server:      http.Server{Addr: addr, Handler: mux},
		svc:         svc,
		mailer:      mailer,
		logger:      logger,
		rateLimiter: newRateLimiter(60),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/ricevute", s.withMiddleware(s.handleRicevute))
	mux.HandleFunc("/ricevute/pdf", s.withMiddleware(s.handleRicevutaPDF))
	mux.HandleFunc("/ricevute/email", s.withMiddleware(s.handleRicevutaEmail))
	mux.HandleFunc("/uscite", s.withMiddleware(s.handleUscite))
	mux.HandleFunc("/soci", s.withMiddleware(s.handleSoci))
	mux.HandleFunc("/listino", s.withMiddleware(s.handleListino))
	mux.HandleFunc("/prima-nota", s.withMiddleware(s.handlePrimaNota))
	mux.HandleFunc("/prima-nota/export", s.withMiddleware(s.handlePrimaNotaExport))
	mux.HandleFunc("/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("/report", s.withMiddleware(s.handleReport))
	mux.HandleFunc("/backup", s.withMiddleware(s.handleBackup))
	mux.HandleFunc("/backup/mirror", s.withMiddleware(s.handleBackupToMirror))

	return s
}

// withMiddleware adds security headers, per-IP rate limiting on mutations and
// request logging around a handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)
		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "richiesta ricevuta",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", ip)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(ip) {
			s.logger.WarnContext(ctx, "rate limit superato", "client_ip", ip, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "troppe richieste, riprovare più tardi", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "richiesta completata",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter captures the status code for the completion log line.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// rateLimiter counts requests per client IP over a one-minute window.
type rateLimiter struct {
	mu        sync.Mutex
	perMinute int
	clients   map[string]*clientInfo
}

type clientInfo struct {
	windowStart time.Time
	requests    int
}

func newRateLimiter(perMinute int) *rateLimiter {
	return &rateLimiter{perMinute: perMinute, clients: make(map[string]*clientInfo)}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	// Inline pruning keeps the map bounded without a cleanup goroutine.
	if len(rl.clients) > 1024 {
		for k, c := range rl.clients {
			if now.Sub(c.windowStart) > 10*time.Minute {
				delete(rl.clients, k)
			}
		}
	}
	c, ok := rl.clients[ip]
	if !ok || now.Sub(c.windowStart) > time.Minute {
		rl.clients[ip] = &clientInfo{windowStart: now, requests: 1}
		return true
	}
	c.requests++
	return c.requests <= rl.perMinute
}
