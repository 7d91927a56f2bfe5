package rod

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"apply-autofill/internal/domain/entity"
	"apply-autofill/internal/infrastructure/logger"
)

func TestAssembleSnapshot_ScreenshotFailureKeepsDOM(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := logger.FromZap(zap.New(core))

	snap := assembleSnapshot("https://jobs.example.test/apply",
		`<body><div id="main">Review</div><script>x()</script></body>`,
		nil, errors.New("capture timed out"), log)

	require.NotNil(t, snap)
	assert.Nil(t, snap.Screenshot)
	assert.Contains(t, snap.HTML, `id="main"`)
	assert.NotContains(t, snap.HTML, "<script")
	assert.Equal(t, "https://jobs.example.test/apply", snap.URL)
	assert.Equal(t, 1, logs.FilterMessage("Screenshot failed, saving DOM only").Len())
}

func TestAssembleSnapshot_WithScreenshot(t *testing.T) {
	shot := &entity.Screenshot{Data: []byte("jpeg"), Format: "jpeg", Width: 1, Height: 1}

	snap := assembleSnapshot("https://jobs.example.test", "<body></body>", shot, nil, logger.NewNop())

	assert.Same(t, shot, snap.Screenshot)
	assert.Equal(t, "<body></body>", snap.HTML)
}
