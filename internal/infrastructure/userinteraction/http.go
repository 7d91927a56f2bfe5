package userinteraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.OperatorPort = (*HTTPOperator)(nil)

const shutdownTimeout = 5 * time.Second

// HTTPOperator publishes the pending escalation over HTTP and waits for a
// decision to be posted back. At most one escalation is pending at a time.
type HTTPOperator struct {
	logger  output.LoggerPort
	metrics http.Handler
	router  chi.Router

	mu       sync.Mutex
	pending  *pendingEscalation
	progress progressView
	server   *http.Server
	done     chan struct{}
}

type pendingEscalation struct {
	esc   entity.Escalation
	reply chan entity.Decision
}

type escalationView struct {
	RunID       string    `json:"run_id"`
	Reason      string    `json:"reason"`
	PageKind    string    `json:"page_kind"`
	Attempt     int       `json:"attempt"`
	MaxAttempts int       `json:"max_attempts"`
	URL         string    `json:"url,omitempty"`
	Error       string    `json:"error,omitempty"`
	Artifacts   []string  `json:"artifacts,omitempty"`
	RaisedAt    time.Time `json:"raised_at"`
	Message     string    `json:"message"`
}

type progressView struct {
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
	PageKind    string `json:"page_kind,omitempty"`
	Plan        string `json:"plan,omitempty"`
	Phase       string `json:"phase,omitempty"`
	Remaining   int    `json:"remaining"`
	Escalated   bool   `json:"escalated"`
}

type decisionRequest struct {
	Decision string `json:"decision"`
}

// NewHTTPOperator builds the router. metrics may be nil.
func NewHTTPOperator(logger output.LoggerPort, metrics http.Handler) *HTTPOperator {
	o := &HTTPOperator{
		logger:  logger.Named("operator"),
		metrics: metrics,
	}
	o.router = o.routes()
	return o
}

func (o *HTTPOperator) routes() chi.Router {
	r := chi.NewRouter()

	reqLogger := httplog.NewLogger("autofill-operator", httplog.Options{
		JSON:    true,
		Concise: true,
	})
	r.Use(httplog.RequestLogger(reqLogger))

	r.Get("/healthz", o.handleHealth)
	r.Get("/status", o.handleStatus)
	r.Route("/escalation", func(r chi.Router) {
		r.Get("/", o.handleGetEscalation)
		r.Post("/decision", o.handleDecision)
	})
	if o.metrics != nil {
		r.Method(http.MethodGet, "/metrics", o.metrics)
	}
	return r
}

func (o *HTTPOperator) Handler() http.Handler {
	return o.router
}

// Start serves on addr until Close. It returns once the listener is bound.
func (o *HTTPOperator) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           o.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan struct{})

	o.mu.Lock()
	o.server = srv
	o.done = done
	o.mu.Unlock()

	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			o.logger.Error("Operator server stopped", "error", err)
		}
	}()

	o.logger.Info("Operator server listening", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Close shuts the server down and waits for the serve loop to exit.
func (o *HTTPOperator) Close() error {
	o.mu.Lock()
	srv, done := o.server, o.done
	o.server, o.done = nil, nil
	o.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(ctx)
	<-done
	return err
}

func (o *HTTPOperator) RequestDecision(ctx context.Context, esc entity.Escalation) (entity.Decision, error) {
	p := &pendingEscalation{esc: esc, reply: make(chan entity.Decision, 1)}

	o.mu.Lock()
	o.pending = p
	o.progress.Escalated = true
	o.mu.Unlock()

	o.logger.Warn("Waiting for operator decision",
		"run_id", esc.RunID,
		"reason", esc.Reason,
		"page_kind", esc.PageKind,
		"url", esc.URL,
	)

	defer func() {
		o.mu.Lock()
		if o.pending == p {
			o.pending = nil
		}
		o.progress.Escalated = false
		o.mu.Unlock()
	}()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case d := <-p.reply:
		return d, nil
	}
}

func (o *HTTPOperator) ShowAttempt(ctx context.Context, attempt, maxAttempts int, kind entity.PageKind) {
	o.mu.Lock()
	o.progress.Attempt = attempt
	o.progress.MaxAttempts = maxAttempts
	o.progress.PageKind = kind.String()
	o.progress.Plan, o.progress.Phase, o.progress.Remaining = "", "", 0
	o.mu.Unlock()

	o.logger.Info("Attempt started", "attempt", attempt, "max_attempts", maxAttempts, "page_kind", kind)
}

func (o *HTTPOperator) ShowPhase(ctx context.Context, plan, phase string, remaining int) {
	o.mu.Lock()
	o.progress.Plan = plan
	o.progress.Phase = phase
	o.progress.Remaining = remaining
	o.mu.Unlock()
}

func (o *HTTPOperator) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (o *HTTPOperator) handleStatus(w http.ResponseWriter, r *http.Request) {
	o.mu.Lock()
	view := o.progress
	o.mu.Unlock()

	respondJSON(w, http.StatusOK, view)
}

func (o *HTTPOperator) handleGetEscalation(w http.ResponseWriter, r *http.Request) {
	o.mu.Lock()
	p := o.pending
	o.mu.Unlock()

	if p == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, newEscalationView(p.esc))
}

func (o *HTTPOperator) handleDecision(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	d, err := entity.ParseDecision(req.Decision)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	o.mu.Lock()
	p := o.pending
	o.pending = nil
	o.mu.Unlock()

	if p == nil {
		respondError(w, http.StatusConflict, "no escalation is pending")
		return
	}
	p.reply <- d

	o.logger.Info("Operator decision received", "run_id", p.esc.RunID, "decision", d)
	respondJSON(w, http.StatusAccepted, map[string]string{"decision": d.String()})
}

func newEscalationView(esc entity.Escalation) escalationView {
	v := escalationView{
		RunID:       esc.RunID,
		Reason:      string(esc.Reason),
		PageKind:    esc.PageKind.String(),
		Attempt:     esc.Attempt,
		MaxAttempts: esc.MaxAttempts,
		URL:         esc.URL,
		Artifacts:   esc.Artifacts,
		RaisedAt:    esc.RaisedAt,
		Message:     esc.Message(),
	}
	if esc.Err != nil {
		v.Error = esc.Err.Error()
	}
	return v
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
