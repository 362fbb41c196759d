package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"wagerbot/application"
	"wagerbot/models"
)

const maxBodyBytes = 1 << 20

// SecretHeader carries the shared webhook secret; PayPal IPN passes it as the token query parameter instead
const SecretHeader = "X-Webhook-Secret"

// Outcomes recorded per webhook request
const (
	OutcomeConfirmed    = "confirmed"
	OutcomeIgnored      = "ignored"
	OutcomeRejected     = "rejected"
	OutcomeMalformed    = "malformed"
	OutcomeUnauthorized = "unauthorized"
)

// PaymentEventProcessor confirms payment legs reported by the gateway
type PaymentEventProcessor interface {
	HandlePaymentEvent(ctx context.Context, event application.PaymentEvent) (*models.PaymentConfirmation, error)
}

// OutcomeRecorder counts webhook requests by outcome
type OutcomeRecorder interface {
	RecordWebhookEvent(ctx context.Context, outcome string)
}

// Server is the payment-gateway webhook endpoint.
// Every payment request is acknowledged with 200 OK so the gateway never retries.
type Server struct {
	processor PaymentEventProcessor
	recorder  OutcomeRecorder
	secret    string
	srv       *http.Server
}

// NewServer creates a webhook server listening on addr. recorder may be nil.
func NewServer(addr string, processor PaymentEventProcessor, recorder OutcomeRecorder) *Server {
	s := &Server{
		processor: processor,
		recorder:  recorder,
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return s
}

// WithSecret requires payment requests to carry secret, in the SecretHeader header or the token
// query parameter. Requests without it are acknowledged and dropped. An empty secret disables the check.
func (s *Server) WithSecret(secret string) *Server {
	s.secret = secret
	return s
}

// Routes builds the chi router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w)
	})
	r.Group(func(r chi.Router) {
		r.Use(s.requireSecret)
		r.Post("/paypal/ipn", s.handleIPN)
		r.Post("/payments/webhook", s.handleJSON)
	})

	return r
}

// Start serves until the server is shut down
func (s *Server) Start() error {
	log.WithField("addr", s.srv.Addr).Info("Payment webhook listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("webhook server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// handleIPN handles PayPal IPN form posts: payment_status, invoice (wager id), custom (user id)
func (s *Server) handleIPN(w http.ResponseWriter, r *http.Request) {
	defer writeOK(w)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		log.WithError(err).Warn("Failed to parse IPN form")
		s.record(r.Context(), OutcomeMalformed)
		return
	}

	userID, err := parseUserID(r.PostForm.Get("custom"))
	if err != nil {
		log.WithField("custom", r.PostForm.Get("custom")).Warn("IPN carries an invalid user id")
		s.record(r.Context(), OutcomeMalformed)
		return
	}

	s.process(r.Context(), application.PaymentEvent{
		WagerID: strings.TrimSpace(r.PostForm.Get("invoice")),
		UserID:  userID,
		Status:  r.PostForm.Get("payment_status"),
	})
}

type jsonPaymentEvent struct {
	WagerID string          `json:"wager_id"`
	UserID  json.RawMessage `json:"user_id"`
	Status  string          `json:"status"`
}

// handleJSON handles generic gateway callbacks {wager_id, user_id, status}
func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	defer writeOK(w)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		log.WithError(err).Warn("Failed to read webhook body")
		s.record(r.Context(), OutcomeMalformed)
		return
	}

	var payload jsonPaymentEvent
	if err := json.Unmarshal(body, &payload); err != nil {
		log.WithError(err).Warn("Failed to decode webhook body")
		s.record(r.Context(), OutcomeMalformed)
		return
	}

	// user_id arrives as a number or as a string holding a snowflake
	userID, err := parseUserID(strings.Trim(string(payload.UserID), `"`))
	if err != nil {
		log.WithField("user_id", string(payload.UserID)).Warn("Webhook carries an invalid user id")
		s.record(r.Context(), OutcomeMalformed)
		return
	}

	s.process(r.Context(), application.PaymentEvent{
		WagerID: strings.TrimSpace(payload.WagerID),
		UserID:  userID,
		Status:  payload.Status,
	})
}

func (s *Server) process(ctx context.Context, event application.PaymentEvent) {
	if !event.IsCompleted() {
		s.record(ctx, OutcomeIgnored)
		return
	}

	confirmation, err := s.processor.HandlePaymentEvent(ctx, event)
	switch {
	case err != nil:
		s.record(ctx, OutcomeRejected)
	case confirmation == nil:
		s.record(ctx, OutcomeIgnored)
	default:
		s.record(ctx, OutcomeConfirmed)
	}
}

func (s *Server) record(ctx context.Context, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordWebhookEvent(ctx, outcome)
	}
}

func parseUserID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("empty user id")
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (s *Server) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.secret == "" {
			next.ServeHTTP(w, r)
			return
		}

		provided := r.Header.Get(SecretHeader)
		if provided == "" {
			provided = r.URL.Query().Get("token")
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.secret)) != 1 {
			log.WithFields(log.Fields{
				"path":   r.URL.Path,
				"remote": r.RemoteAddr,
			}).Warn("Webhook request without a valid secret")
			s.record(r.Context(), OutcomeUnauthorized)
			writeOK(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"remote":      r.RemoteAddr,
			"request_id":  middleware.GetReqID(r.Context()),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Webhook request")
	})
}
