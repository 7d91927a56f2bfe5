package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"apply-autofill/internal/application/port/input"
	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ input.FlowRunner = (*UseCase)(nil)

// Flow outcomes reported to MetricsPort.FlowFinished.
const (
	OutcomeSubmitted  = "submitted"
	OutcomeAborted    = "aborted"
	OutcomeFailed     = "failed"
	OutcomeIncomplete = "incomplete"
)

var forceSubmitQueue = entity.Queue{entity.NewClick(`//button[contains(text(),"Save and Continue")]`)}

type Config struct {
	// MaxAttempts bounds the number of page passes before the operator is asked.
	MaxAttempts int
	// StallLimit is how many consecutive passes may end on the same page kind.
	StallLimit int
	// PassDelay is waited before reclassifying after a pass.
	PassDelay time.Duration
	// ForceSubmitDelay is waited after an operator-requested "Save and Continue".
	ForceSubmitDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:      10,
		StallLimit:       3,
		PassDelay:        3 * time.Second,
		ForceSubmitDelay: 3 * time.Second,
	}
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Option func(*UseCase)

func WithDiagnostics(d output.DiagnosticsPort) Option {
	return func(uc *UseCase) { uc.diagnostics = d }
}

func WithMetrics(m output.MetricsPort) Option {
	return func(uc *UseCase) { uc.metrics = m }
}

func WithSleeper(s Sleeper) Option {
	return func(uc *UseCase) { uc.sleep = s }
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

func WithRunIDs(next func() string) Option {
	return func(uc *UseCase) { uc.newRunID = next }
}

// UseCase is the page flow controller. It classifies the current page, runs the
// matching builder's plan through the executor and moves on, handing control
// to the operator whenever the page cannot be recognized or stops changing.
type UseCase struct {
	browser     output.BrowserPort
	executor    output.InstructionExecutor
	classifier  output.PageClassifier
	sections    output.SectionRegistry
	operator    output.OperatorPort
	diagnostics output.DiagnosticsPort
	metrics     output.MetricsPort
	logger      output.LoggerPort
	profile     *entity.Profile
	cfg         Config

	sleep    Sleeper
	now      func() time.Time
	newRunID func() string
}

func New(
	browser output.BrowserPort,
	executor output.InstructionExecutor,
	classifier output.PageClassifier,
	sections output.SectionRegistry,
	operator output.OperatorPort,
	logger output.LoggerPort,
	profile *entity.Profile,
	cfg Config,
	opts ...Option,
) *UseCase {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.StallLimit <= 0 {
		cfg.StallLimit = def.StallLimit
	}

	uc := &UseCase{
		browser:    browser,
		executor:   executor,
		classifier: classifier,
		sections:   sections,
		operator:   operator,
		metrics:    output.NopMetrics{},
		logger:     logger.Named("flow"),
		profile:    profile,
		cfg:        cfg,
		sleep:      SleepContext,
		now:        time.Now,
		newRunID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// run holds the mutable state of one Run call.
type run struct {
	*UseCase
	log output.LoggerPort
	res *entity.FlowResult

	state    entity.FlowState
	kind     entity.PageKind
	attempts int
	stall    int
	bypass   bool
	pending  *entity.Escalation
}

func (uc *UseCase) Run(ctx context.Context, startURL string) (*entity.FlowResult, error) {
	runID := uc.newRunID()
	r := &run{
		UseCase: uc,
		log:     uc.logger.WithField("run_id", runID),
		res:     &entity.FlowResult{RunID: runID},
		state:   entity.StateBootstrapping,
		kind:    entity.PageUnknown,
	}

	err := r.loop(ctx, startURL)

	r.res.FinalState = r.state
	r.res.Attempts = r.attempts
	r.res.LastPageKind = r.kind

	outcome := OutcomeIncomplete
	switch {
	case r.res.Aborted:
		outcome = OutcomeAborted
	case err != nil:
		outcome = OutcomeFailed
	case r.res.Submitted:
		outcome = OutcomeSubmitted
	}
	uc.metrics.FlowFinished(outcome)
	r.log.Info("Flow finished", "outcome", outcome, "attempts", r.attempts, "escalations", r.res.Escalations)

	return r.res, err
}

func (r *run) loop(ctx context.Context, startURL string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch r.state {
		case entity.StateBootstrapping:
			err = r.bootstrap(ctx, startURL)
		case entity.StateAuthenticating:
			err = r.authenticate(ctx)
		case entity.StateFillingSection:
			err = r.fillSection(ctx)
		case entity.StateAtReview:
			err = r.submit(ctx)
		case entity.StateEscalated:
			err = r.escalated(ctx)
		case entity.StateDone:
			if r.res.Aborted {
				return entity.ErrAborted
			}
			return nil
		default:
			return fmt.Errorf("unexpected flow state %q", r.state)
		}
		if err != nil {
			return err
		}
	}
}

func (r *run) bootstrap(ctx context.Context, startURL string) error {
	if startURL != "" {
		r.log.Info("Opening application", "url", startURL)
		if err := r.browser.Navigate(ctx, startURL); err != nil {
			return fmt.Errorf("navigate to %s: %w", startURL, err)
		}
	}
	r.state = entity.StateAuthenticating
	return nil
}

// beginPass enforces the attempt ceiling. It reports false when the pass must
// not run because the flow escalated instead.
func (r *run) beginPass(ctx context.Context) bool {
	if r.attempts >= r.cfg.MaxAttempts && !r.bypass {
		r.escalate(entity.ReasonMaxAttempts, fmt.Errorf("%w (%d)", entity.ErrMaxAttempts, r.cfg.MaxAttempts))
		return false
	}
	r.bypass = false
	r.attempts++
	r.operator.ShowAttempt(ctx, r.attempts, r.cfg.MaxAttempts, r.kind)
	return true
}

// authenticate tries to create an account and falls back to signing in. Pages
// already past authentication skip straight to routing.
func (r *run) authenticate(ctx context.Context) error {
	before := r.observe(ctx)
	if before == entity.PageReview || before.IsSection() {
		r.log.Info("Already authenticated", "kind", before.String())
		r.route(before)
		return nil
	}
	if !r.beginPass(ctx) {
		return nil
	}

	created, err := r.runKind(ctx, entity.PageAccountCreation)
	if err != nil && !entity.IsHardMiss(err) {
		return err
	}
	if err != nil || !created {
		r.log.Info("Account creation did not succeed, signing in", "error", err)
		signedIn, err := r.runKind(ctx, entity.PageSignIn)
		if err != nil {
			if entity.IsHardMiss(err) {
				r.escalate(entity.ReasonHardMiss, err)
				return nil
			}
			return err
		}
		if !signedIn {
			r.log.Warn("Sign-in plan reported failure")
		}
	}

	if err := r.sleep(ctx, r.cfg.PassDelay); err != nil {
		return err
	}

	after := r.observe(ctx)
	switch {
	case after == entity.PageUnknown:
		r.escalate(entity.ReasonUnknownPage, nil)
	case after == before:
		r.escalate(entity.ReasonNoProgress, fmt.Errorf("still on %s after authentication", after))
	default:
		r.route(after)
	}
	return nil
}

func (r *run) fillSection(ctx context.Context) error {
	if !r.beginPass(ctx) {
		return nil
	}
	kind := r.kind

	if _, err := r.runKind(ctx, kind); err != nil {
		if entity.IsHardMiss(err) {
			r.escalate(entity.ReasonHardMiss, err)
			return nil
		}
		return err
	}

	if err := r.sleep(ctx, r.cfg.PassDelay); err != nil {
		return err
	}

	next := r.observe(ctx)
	if next == kind {
		r.stall++
		r.log.Warn("Page did not change after pass", "kind", kind.String(), "stall", r.stall)
		if r.stall >= r.cfg.StallLimit {
			r.escalate(entity.ReasonNoProgress, fmt.Errorf("%s unchanged after %d passes", kind, r.stall))
		}
		return nil
	}
	r.route(next)
	return nil
}

func (r *run) submit(ctx context.Context) error {
	ok, err := r.runKind(ctx, entity.PageReview)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		r.escalate(entity.ReasonSubmitFailure, err)
		return nil
	}
	r.res.Submitted = ok
	if !ok {
		r.log.Warn("Submit button was not clicked")
	}
	r.state = entity.StateDone
	return nil
}

func (r *run) escalated(ctx context.Context) error {
	esc := r.pending
	if esc == nil {
		esc = &entity.Escalation{Reason: entity.ReasonUnknownPage}
	}
	r.pending = nil

	esc.RunID = r.res.RunID
	esc.PageKind = r.kind
	esc.Attempt = r.attempts
	esc.MaxAttempts = r.cfg.MaxAttempts
	esc.URL = r.browser.CurrentURL()
	esc.RaisedAt = r.now()

	if r.diagnostics != nil {
		paths, err := r.diagnostics.Record(ctx, esc.RunID, esc.Reason)
		if err != nil {
			r.log.Warn("Could not record diagnostics", "error", err)
		}
		esc.Artifacts = paths
	}

	r.res.Escalations++
	r.metrics.Escalated(esc.Reason)
	r.log.Warn("Escalating to operator", "reason", string(esc.Reason), "kind", r.kind.String(), "attempt", r.attempts, "error", esc.Err)

	decision, err := r.operator.RequestDecision(ctx, *esc)
	if err != nil {
		return fmt.Errorf("operator decision: %w", err)
	}
	r.log.Info("Operator decided", "decision", decision.String())

	switch decision {
	case entity.DecisionResume:
		r.resume(ctx)
	case entity.DecisionForceSubmit:
		if _, err := r.executor.Execute(ctx, forceSubmitQueue); err != nil {
			r.log.Warn("Forced submit failed", "error", err)
		}
		if err := r.sleep(ctx, r.cfg.ForceSubmitDelay); err != nil {
			return err
		}
		r.resume(ctx)
	case entity.DecisionAbort:
		r.res.Aborted = true
		r.state = entity.StateDone
	default:
		return fmt.Errorf("unsupported operator decision %s", decision)
	}
	return nil
}

func (r *run) resume(ctx context.Context) {
	r.bypass = true
	r.stall = 0
	r.route(r.observe(ctx))
}

func (r *run) route(kind entity.PageKind) {
	switch {
	case kind == entity.PageReview:
		r.state = entity.StateAtReview
	case kind.IsSection():
		r.state = entity.StateFillingSection
	case kind.IsAuthentication():
		r.state = entity.StateAuthenticating
	default:
		r.escalate(entity.ReasonUnknownPage, nil)
	}
}

func (r *run) escalate(reason entity.EscalationReason, err error) {
	r.pending = &entity.Escalation{Reason: reason, Err: err}
	r.state = entity.StateEscalated
}

func (r *run) observe(ctx context.Context) entity.PageKind {
	kind := r.classifier.Classify(ctx)
	if kind != r.kind {
		r.stall = 0
	}
	r.kind = kind
	r.res.Visited = append(r.res.Visited, kind)
	r.log.Info("Current page", "kind", kind.String())
	return kind
}

// runKind builds and runs the plan for kind. It reports false when the plan's
// failure signal is present or some of its instructions never succeeded.
func (r *run) runKind(ctx context.Context, kind entity.PageKind) (bool, error) {
	builder, ok := r.sections.Get(kind)
	if !ok {
		return false, fmt.Errorf("no builder registered for %s", kind)
	}
	plan, err := builder.Build(ctx, r.profile, r.browser)
	if err != nil {
		return false, fmt.Errorf("build %s plan: %w", kind, err)
	}
	return r.runPlan(ctx, plan)
}

func (r *run) runPlan(ctx context.Context, plan *entity.Plan) (bool, error) {
	log := r.log.WithField("plan", plan.Name)
	remaining := 0

	for _, phase := range plan.Phases {
		r.operator.ShowPhase(ctx, plan.Name, phase.Name, len(phase.Queue))

		if phase.WaitFor != "" {
			found, err := r.browser.WaitFor(ctx, phase.WaitFor, phase.WaitTimeout)
			if err != nil && ctx.Err() != nil {
				return false, ctx.Err()
			}
			if !found {
				log.Warn("Phase precondition not met", "phase", phase.Name, "wait_for", phase.WaitFor.String(), "error", err)
			}
		}

		report, err := r.executor.Execute(ctx, phase.Queue)
		if err != nil {
			return false, fmt.Errorf("%s/%s: %w", plan.Name, phase.Name, err)
		}
		remaining += len(report.Remaining)
		log.Debug("Phase done", "phase", phase.Name, "succeeded", report.Succeeded, "remaining", len(report.Remaining))

		if err := r.sleep(ctx, phase.SettleAfter); err != nil {
			return false, err
		}
	}

	if plan.FailureSignal != "" {
		failed, err := r.browser.Exists(ctx, plan.FailureSignal)
		if err != nil {
			log.Warn("Failure signal probe failed", "error", err)
		}
		if failed {
			log.Info("Plan failure signal present", "signal", plan.FailureSignal.String())
			return false, nil
		}
		return true, nil
	}
	return remaining == 0, nil
}
