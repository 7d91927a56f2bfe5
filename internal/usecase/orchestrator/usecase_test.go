package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apply-autofill/internal/application/service"
	"apply-autofill/internal/domain/entity"
	"apply-autofill/internal/infrastructure/logger"
	"apply-autofill/internal/testutil/fakepage"
	"apply-autofill/internal/usecase/builders"
	"apply-autofill/internal/usecase/classifier"
	"apply-autofill/internal/usecase/executor"
)

var (
	personalPage   = []entity.Locator{`//h2[contains(text(),"My Information")]`, builders.SaveAndContinue}
	experiencePage = []entity.Locator{`//div[@aria-labelledby="Work-Experience-section"]`, builders.SaveAndContinue}
	additionalPage = []entity.Locator{`//h2[contains(text(),"Self Identify")]`, builders.SaveAndContinue}
	reviewPage     = []entity.Locator{`//h2[contains(text(),"Review")]`, builders.SubmitButton}
	accountPage    = []entity.Locator{builders.AccountEmail, builders.AccountPassword, builders.AccountVerifyPassword, builders.CreateAccountSubmit}
)

type scriptedOperator struct {
	decisions   []entity.Decision
	escalations []entity.Escalation
	onEscalate  func(entity.Escalation)
	err         error
	attempts    []int
	phases      []string
}

func (o *scriptedOperator) RequestDecision(ctx context.Context, esc entity.Escalation) (entity.Decision, error) {
	o.escalations = append(o.escalations, esc)
	if o.onEscalate != nil {
		o.onEscalate(esc)
	}
	if o.err != nil {
		return 0, o.err
	}
	if len(o.decisions) == 0 {
		return entity.DecisionAbort, nil
	}
	d := o.decisions[0]
	o.decisions = o.decisions[1:]
	return d, nil
}

func (o *scriptedOperator) ShowAttempt(ctx context.Context, attempt, maxAttempts int, kind entity.PageKind) {
	o.attempts = append(o.attempts, attempt)
}

func (o *scriptedOperator) ShowPhase(ctx context.Context, plan, phase string, remaining int) {
	o.phases = append(o.phases, plan+"/"+phase)
}

type recordingDiagnostics struct {
	reasons []entity.EscalationReason
}

func (d *recordingDiagnostics) Record(ctx context.Context, runID string, reason entity.EscalationReason) ([]string, error) {
	d.reasons = append(d.reasons, reason)
	return []string{"diagnostics/" + runID + ".jpg"}, nil
}

type recordingMetrics struct {
	finished  []string
	escalated []entity.EscalationReason
}

func (m *recordingMetrics) InstructionAttempted(entity.ActionKind, string) {}
func (m *recordingMetrics) PageClassified(entity.PageKind)                 {}
func (m *recordingMetrics) Escalated(r entity.EscalationReason)            { m.escalated = append(m.escalated, r) }
func (m *recordingMetrics) FlowFinished(outcome string)                    { m.finished = append(m.finished, outcome) }

type harness struct {
	page        *fakepage.Page
	operator    *scriptedOperator
	diagnostics *recordingDiagnostics
	metrics     *recordingMetrics
	uc          *UseCase
}

func newHarness(page *fakepage.Page, op *scriptedOperator, cfg Config) *harness {
	log := logger.NewNop()
	reg := service.NewSectionRegistry()
	builders.RegisterDefaults(reg, func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) })

	h := &harness{
		page:        page,
		operator:    op,
		diagnostics: &recordingDiagnostics{},
		metrics:     &recordingMetrics{},
	}
	h.uc = New(
		page,
		executor.New(page, log, nil, time.Millisecond),
		classifier.New(page, log, nil),
		reg,
		op,
		log,
		&entity.Profile{
			Account:      entity.Account{Email: "jane@example.com", Password: "pw"},
			PersonalInfo: entity.PersonalInfo{FirstName: "Jane", LastName: "Doe"},
		},
		cfg,
		WithDiagnostics(h.diagnostics),
		WithMetrics(h.metrics),
		WithSleeper(func(ctx context.Context, d time.Duration) error { return ctx.Err() }),
		WithRunIDs(func() string { return "run-1" }),
	)
	return h
}

// wizard makes every "Save and Continue" click advance through pages.
func wizard(page *fakepage.Page, pages ...[]entity.Locator) {
	step := 0
	page.Replace(pages[0]...)
	page.OnClick(builders.SaveAndContinue, func(p *fakepage.Page) {
		if step+1 < len(pages) {
			step++
			p.Replace(pages[step]...)
		}
	})
	page.OnClick(builders.SubmitButton, func(p *fakepage.Page) { p.Replace() })
}

func TestRun_HappyPath(t *testing.T) {
	page := fakepage.New(accountPage...)
	page.OnClick(builders.CreateAccountSubmit, func(p *fakepage.Page) {
		wizard(p, personalPage, experiencePage, additionalPage, reviewPage)
	})
	h := newHarness(page, &scriptedOperator{}, Config{})

	res, err := h.uc.Run(context.Background(), "https://jobs.example.test/apply")
	require.NoError(t, err)

	assert.True(t, res.Submitted)
	assert.False(t, res.Aborted)
	assert.Equal(t, entity.StateDone, res.FinalState)
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, 4, res.Attempts, "authentication plus three sections")
	assert.Zero(t, res.Escalations)
	assert.Equal(t, []entity.PageKind{
		entity.PageAccountCreation,
		entity.PagePersonalInfo,
		entity.PageWorkExperience,
		entity.PageAdditionalInfo,
		entity.PageReview,
	}, res.Visited)

	assert.Equal(t, "https://jobs.example.test/apply", page.URL)
	assert.Equal(t, "jane@example.com", page.Value(builders.AccountEmail))
	assert.Len(t, h.page.CallsOf("navigate"), 1)
	assert.Equal(t, []string{OutcomeSubmitted}, h.metrics.finished)
	assert.Contains(t, h.operator.phases, "account_creation/credentials")
	assert.Contains(t, h.operator.phases, "review/submit")
}

func TestRun_FallsBackToSignIn(t *testing.T) {
	page := fakepage.New(append(accountPage, builders.SignInLink)...)
	page.OnClick(builders.CreateAccountSubmit, func(p *fakepage.Page) {
		p.Show(builders.AccountErrorMessage)
	})
	page.OnClick(builders.SignInLink, func(p *fakepage.Page) {
		p.Replace(builders.SignInEmail, builders.SignInPassword, builders.SignInSubmit)
	})
	page.OnClick(builders.SignInSubmit, func(p *fakepage.Page) {
		wizard(p, personalPage, reviewPage)
	})
	h := newHarness(page, &scriptedOperator{}, Config{})

	res, err := h.uc.Run(context.Background(), "")
	require.NoError(t, err)

	assert.True(t, res.Submitted)
	assert.Equal(t, entity.PageSignIn, res.Visited[0])
	assert.Equal(t, "jane@example.com", page.Value(builders.SignInEmail))
	assert.Empty(t, page.CallsOf("navigate"))
}

func TestRun_SkipsAuthenticationWhenPastIt(t *testing.T) {
	page := fakepage.New()
	wizard(page, reviewPage)
	h := newHarness(page, &scriptedOperator{}, Config{})

	res, err := h.uc.Run(context.Background(), "")
	require.NoError(t, err)

	assert.True(t, res.Submitted)
	assert.Zero(t, res.Attempts)
	assert.Empty(t, page.CallsOf("set_value"))
}

func TestRun_UnknownPageEscalates(t *testing.T) {
	page := fakepage.New(accountPage...)
	page.OnClick(builders.CreateAccountSubmit, func(p *fakepage.Page) { p.Replace() })
	op := &scriptedOperator{decisions: []entity.Decision{entity.DecisionAbort}}
	h := newHarness(page, op, Config{})

	res, err := h.uc.Run(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrAborted)

	require.Len(t, op.escalations, 1)
	esc := op.escalations[0]
	assert.Equal(t, entity.ReasonUnknownPage, esc.Reason)
	assert.Equal(t, entity.PageUnknown, esc.PageKind)
	assert.Equal(t, "run-1", esc.RunID)
	assert.Equal(t, []string{"diagnostics/run-1.jpg"}, esc.Artifacts)
	assert.Equal(t, []entity.EscalationReason{entity.ReasonUnknownPage}, h.diagnostics.reasons)

	assert.True(t, res.Aborted)
	assert.False(t, res.Submitted)
	assert.Equal(t, entity.StateDone, res.FinalState)
	assert.Equal(t, []string{OutcomeAborted}, h.metrics.finished)
}

func TestRun_AuthenticationWithoutProgressEscalates(t *testing.T) {
	page := fakepage.New(append(accountPage, builders.SignInLink)...)
	h := newHarness(page, &scriptedOperator{}, Config{})

	_, err := h.uc.Run(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrAborted)

	require.Len(t, h.operator.escalations, 1)
	assert.Equal(t, entity.ReasonNoProgress, h.operator.escalations[0].Reason)
	assert.Equal(t, entity.PageSignIn, h.operator.escalations[0].PageKind)
}

func TestRun_HardMissDuringSignInEscalates(t *testing.T) {
	page := fakepage.New(builders.AccountEmail, builders.SignInLink)
	h := newHarness(page, &scriptedOperator{}, Config{})

	_, err := h.uc.Run(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrAborted)

	require.Len(t, h.operator.escalations, 1)
	esc := h.operator.escalations[0]
	assert.Equal(t, entity.ReasonHardMiss, esc.Reason)
	assert.True(t, entity.IsHardMiss(esc.Err))
}

func TestRun_StallEscalatesAndForceSubmitRecovers(t *testing.T) {
	page := fakepage.New(personalPage...)
	op := &scriptedOperator{decisions: []entity.Decision{entity.DecisionForceSubmit}}
	op.onEscalate = func(entity.Escalation) {
		// The operator fixes the form by hand; the next Save and Continue works.
		page.OnClick(builders.SaveAndContinue, func(p *fakepage.Page) { wizard(p, reviewPage) })
	}
	h := newHarness(page, op, Config{StallLimit: 2})

	res, err := h.uc.Run(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, op.escalations, 1)
	assert.Equal(t, entity.ReasonNoProgress, op.escalations[0].Reason)
	assert.Equal(t, entity.PagePersonalInfo, op.escalations[0].PageKind)
	assert.Equal(t, 2, res.Attempts)
	assert.True(t, res.Submitted)
}

func bounce(p *fakepage.Page) {
	if p.Has(personalPage[0]) {
		p.Replace(experiencePage...)
		return
	}
	p.Replace(personalPage...)
}

// A wizard that bounces between two sections never reaches review; the
// controller must stop at the ceiling and ask the operator.
func TestRun_AttemptCeiling(t *testing.T) {
	page := fakepage.New(personalPage...)
	page.OnClick(builders.SaveAndContinue, bounce)

	op := &scriptedOperator{}
	h := newHarness(page, op, Config{MaxAttempts: 4})

	res, err := h.uc.Run(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrAborted)

	require.Len(t, op.escalations, 1)
	assert.Equal(t, entity.ReasonMaxAttempts, op.escalations[0].Reason)
	assert.ErrorIs(t, op.escalations[0].Err, entity.ErrMaxAttempts)
	assert.Equal(t, 4, res.Attempts)
	assert.Equal(t, []int{1, 2, 3, 4}, op.attempts)
	assert.Equal(t, []entity.EscalationReason{entity.ReasonMaxAttempts}, h.metrics.escalated)
}

func TestRun_ResumeAllowsOneMorePass(t *testing.T) {
	page := fakepage.New(personalPage...)
	page.OnClick(builders.SaveAndContinue, bounce)

	op := &scriptedOperator{decisions: []entity.Decision{entity.DecisionResume, entity.DecisionAbort}}
	h := newHarness(page, op, Config{MaxAttempts: 2})

	res, err := h.uc.Run(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrAborted)

	require.Len(t, op.escalations, 2)
	assert.Equal(t, 3, res.Attempts)
	for _, esc := range op.escalations {
		assert.Equal(t, entity.ReasonMaxAttempts, esc.Reason)
	}
}

func TestRun_OperatorErrorIsFatal(t *testing.T) {
	page := fakepage.New()
	op := &scriptedOperator{err: context.Canceled}
	h := newHarness(page, op, Config{})

	res, err := h.uc.Run(context.Background(), "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, entity.StateEscalated, res.FinalState)
	assert.Equal(t, []string{OutcomeFailed}, h.metrics.finished)
}

func TestRun_NavigateFailure(t *testing.T) {
	page := fakepage.New().FailOp("navigate", errors.New("net::ERR_NAME_NOT_RESOLVED"))
	h := newHarness(page, &scriptedOperator{}, Config{})

	_, err := h.uc.Run(context.Background(), "https://nowhere.invalid")
	assert.ErrorContains(t, err, "ERR_NAME_NOT_RESOLVED")
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))
}
