package userinteraction

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"apply-autofill/internal/domain/entity"
	"apply-autofill/internal/infrastructure/logger"
)

func newTestClient() *http.Client {
	return &http.Client{
		Timeout:   5 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
}

func postDecision(t *testing.T, client *http.Client, base, body string) *http.Response {
	t.Helper()
	resp, err := client.Post(base+"/escalation/decision", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHTTPOperator_DecisionRoundTrip(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	op := NewHTTPOperator(logger.NewNop(), nil)
	srv := httptest.NewServer(op.Handler())
	defer srv.Close()
	client := newTestClient()

	resp, err := client.Get(srv.URL + "/escalation")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	type result struct {
		d   entity.Decision
		err error
	}
	got := make(chan result, 1)
	go func() {
		d, err := op.RequestDecision(context.Background(), testEscalation())
		got <- result{d, err}
	}()

	var view escalationView
	require.Eventually(t, func() bool {
		resp, err := client.Get(srv.URL + "/escalation")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return false
		}
		return json.NewDecoder(resp.Body).Decode(&view) == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "run-1", view.RunID)
	assert.Equal(t, "no_progress", view.Reason)
	assert.Equal(t, "personal_info", view.PageKind)
	assert.Equal(t, "page did not change", view.Error)
	assert.Len(t, view.Artifacts, 2)

	resp = postDecision(t, client, srv.URL, `{"decision":"force_submit"}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	select {
	case r := <-got:
		require.NoError(t, r.err)
		assert.Equal(t, entity.DecisionForceSubmit, r.d)
	case <-time.After(2 * time.Second):
		t.Fatal("decision was not delivered")
	}

	resp, err = client.Get(srv.URL + "/escalation")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHTTPOperator_DecisionErrors(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	op := NewHTTPOperator(logger.NewNop(), nil)
	srv := httptest.NewServer(op.Handler())
	defer srv.Close()
	client := newTestClient()

	resp := postDecision(t, client, srv.URL, `{"decision":"resume"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postDecision(t, client, srv.URL, `{"decision":"later"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postDecision(t, client, srv.URL, `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPOperator_ContextCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	op := NewHTTPOperator(logger.NewNop(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := op.RequestDecision(ctx, testEscalation())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	op.mu.Lock()
	defer op.mu.Unlock()
	assert.Nil(t, op.pending)
	assert.False(t, op.progress.Escalated)
}

func TestHTTPOperator_StatusHealthAndMetrics(t *testing.T) {
	defer goleak.VerifyNone(t)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "autofill_flow_runs_total 0\n")
	})
	op := NewHTTPOperator(logger.NewNop(), metrics)
	srv := httptest.NewServer(op.Handler())
	defer srv.Close()
	client := newTestClient()

	op.ShowAttempt(context.Background(), 4, 10, entity.PageAdditionalInfo)
	op.ShowPhase(context.Background(), "additional_info", "questions", 14)

	resp, err := client.Get(srv.URL + "/status")
	require.NoError(t, err)
	var status progressView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	resp.Body.Close()
	assert.Equal(t, progressView{
		Attempt:     4,
		MaxAttempts: 10,
		PageKind:    "additional_info",
		Plan:        "additional_info",
		Phase:       "questions",
		Remaining:   14,
	}, status)

	resp, err = client.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "OK", string(body))

	resp, err = client.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "autofill_flow_runs_total")
}

func TestHTTPOperator_StartAndClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	op := NewHTTPOperator(logger.NewNop(), nil)
	addr, err := op.Start("127.0.0.1:0")
	require.NoError(t, err)

	resp, err := newTestClient().Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, op.Close())
	assert.NoError(t, op.Close())
}
