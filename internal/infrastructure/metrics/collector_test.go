package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

func TestNewCollector(t *testing.T) {
	c := NewCollector("")

	assert.NotNil(t, c.instructionsTotal)
	assert.NotNil(t, c.pagesClassified)
	assert.NotNil(t, c.escalationsTotal)
	assert.NotNil(t, c.flowRunsTotal)

	// Separate registries never collide.
	assert.NotPanics(t, func() { NewCollector("") })
}

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("test")

	c.InstructionAttempted(entity.ActionFill, output.OutcomeSucceeded)
	c.InstructionAttempted(entity.ActionFill, output.OutcomeSucceeded)
	c.InstructionAttempted(entity.ActionClick, output.OutcomeSkipped)
	c.PageClassified(entity.PageReview)
	c.Escalated(entity.ReasonNoProgress)
	c.FlowFinished("submitted")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.instructionsTotal.WithLabelValues("FILL", output.OutcomeSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.instructionsTotal.WithLabelValues("CLICK", output.OutcomeSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.pagesClassified.WithLabelValues("review")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.escalationsTotal.WithLabelValues("no_progress")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.flowRunsTotal.WithLabelValues("submitted")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.instructionsTotal))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.Escalated(entity.ReasonHardMiss)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `test_escalations_total{reason="hard_miss"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
