package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/clearview-exteriors/booking-server/internal/booking"
	"github.com/clearview-exteriors/booking-server/internal/domain"
	"github.com/clearview-exteriors/booking-server/internal/lib/logger/sl"
	"github.com/clearview-exteriors/booking-server/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BookingService is the slice of the booking service the API needs.
type BookingService interface {
	Submit(ctx context.Context, sub domain.Submission) (booking.Result, error)
}

type Server struct {
	bookings BookingService
	brand    string
	log      *slog.Logger
	httpSrv  *http.Server
}

type Options struct {
	Bookings BookingService
	Brand    string
	Logger   *slog.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{bookings: opts.Bookings, brand: opts.Brand, log: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/bookings", s.handleCreateBooking)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleIndex)
	s.httpSrv = &http.Server{Handler: s.wrap(mux), ReadHeaderTimeout: 5 * time.Second}
	return s
}

func (s *Server) ServeTCP(ctx context.Context, bind string) error {
	if bind == "" {
		return errors.New("bind required")
	}
	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}
	go s.shutdownOnContext(ctx)
	return s.httpSrv.Serve(ln)
}

// wrap adds security headers and request logging to every route.
func (s *Server) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("took", time.Since(start)))
	})
}

func (s *Server) shutdownOnContext(ctx context.Context) {
	<-ctx.Done()
	timeout, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = s.httpSrv.Shutdown(timeout)
}

type response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "brand": s.brand})
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := s.bookings.Submit(r.Context(), sub)
	if err != nil {
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			writeErr(w, http.StatusBadRequest, vErr.Reason)
			return
		}
		// Internal details are logged, never returned to the client.
		s.log.Error("booking submission failed", sl.Err(err))
		writeErr(w, http.StatusInternalServerError, "server error")
		return
	}

	if res.Discarded {
		s.log.Debug("submission discarded")
	}
	writeJSON(w, http.StatusOK, response{OK: true, Message: "Booking request received. We'll be in touch to confirm."})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(web.Index)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, response{OK: false, Error: msg})
}
