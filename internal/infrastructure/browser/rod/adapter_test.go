package rod

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

func serve(t *testing.T, body string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server.URL
}

// newAdapter launches a headless browser, skipping the test when none is available.
func newAdapter(t *testing.T) *BrowserAdapter {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests disabled in -short mode")
	}
	cfg := DefaultConfig()
	cfg.Headless = true
	cfg.NoSandbox = true

	adapter, err := NewBrowserAdapter(context.Background(), cfg)
	if err != nil {
		t.Skipf("browser unavailable: %v", err)
	}
	t.Cleanup(adapter.Close)
	return adapter
}

func openPage(t *testing.T, body string) (*BrowserAdapter, context.Context) {
	adapter := newAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, body)))
	return adapter, ctx
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Headless)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.False(t, cfg.NoSandbox, "Should be secure by default")
	assert.False(t, cfg.DevTools)
	assert.Empty(t, cfg.Bin)
}

func TestBrowserAdapter_Navigate(t *testing.T) {
	adapter := newAdapter(t)
	url := serve(t, FormHTML)

	require.NoError(t, adapter.Navigate(context.Background(), url))
	assert.Equal(t, url+"/", adapter.CurrentURL())
}

func TestBrowserAdapter_Exists(t *testing.T) {
	adapter, ctx := openPage(t, FormHTML)

	ok, err := adapter.Exists(ctx, `//h2[contains(text(),"My Information")]`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.Exists(ctx, `//h2[contains(text(),"Review")]`)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = adapter.Exists(ctx, `#result`)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBrowserAdapter_Locate(t *testing.T) {
	adapter, ctx := openPage(t, LateHTML)
	signIn := entity.Locator(`//button[@data-automation-id="signInLink"]`)

	t.Run("non-required fails fast", func(t *testing.T) {
		start := time.Now()
		_, err := adapter.Locate(ctx, `//div[@id="never"]`, output.LocateOptions{})
		assert.ErrorIs(t, err, entity.ErrElementNotFound)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("required waits for late element", func(t *testing.T) {
		el, err := adapter.Locate(ctx, signIn, output.LocateOptions{Required: true, Timeout: 3 * time.Second})
		require.NoError(t, err)
		assert.Equal(t, signIn, el.Locator())
	})

	t.Run("required gives up after timeout", func(t *testing.T) {
		_, err := adapter.Locate(ctx, `//div[@id="never"]`, output.LocateOptions{Required: true, Timeout: 200 * time.Millisecond})
		assert.ErrorIs(t, err, entity.ErrElementNotFound)
	})
}

func TestBrowserAdapter_FillAndIsEmpty(t *testing.T) {
	adapter, ctx := openPage(t, FormHTML)

	email, err := adapter.Locate(ctx, `//input[@data-automation-id="email"]`, output.LocateOptions{})
	require.NoError(t, err)
	empty, err := adapter.IsEmpty(ctx, email)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, adapter.SetValue(ctx, email, "jane@example.com"))
	empty, err = adapter.IsEmpty(ctx, email)
	require.NoError(t, err)
	assert.False(t, empty)

	prefilled, err := adapter.Locate(ctx, `//input[@data-automation-id="prefilled"]`, output.LocateOptions{})
	require.NoError(t, err)
	require.NoError(t, adapter.SetValue(ctx, prefilled, "new@example.com"))
	assert.Equal(t, "new@example.com", adapter.page.MustElement(`[data-automation-id="prefilled"]`).MustProperty("value").Str())

	assert.NoError(t, adapter.PressEnter(ctx, email))
}

func TestBrowserAdapter_Click(t *testing.T) {
	adapter, ctx := openPage(t, FormHTML)

	btn, err := adapter.Locate(ctx, `//button[@id="btn"]`, output.LocateOptions{Required: true, Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, adapter.Click(ctx, btn))

	assert.Equal(t, "Clicked!", adapter.page.MustElement("#result").MustText())
}

func TestBrowserAdapter_SelectFromOpenList(t *testing.T) {
	adapter, ctx := openPage(t, DropdownHTML)
	country, err := adapter.Locate(ctx, `//button[@id="country"]`, output.LocateOptions{})
	require.NoError(t, err)

	ok, err := adapter.SelectFromOpenList(ctx, country, "United States", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "United States of America", adapter.page.MustElement("#country").MustText())

	ok, err = adapter.SelectFromOpenList(ctx, country, "Mexico", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBrowserAdapter_Upload(t *testing.T) {
	adapter, ctx := openPage(t, FormHTML)
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	input, err := adapter.Locate(ctx, `//input[@data-automation-id="file-upload-input-ref"]`, output.LocateOptions{})
	require.NoError(t, err)
	require.NoError(t, adapter.Upload(ctx, input, path))

	count := adapter.page.MustEval(`() => document.querySelector('[data-automation-id="file-upload-input-ref"]').files.length`).Int()
	assert.Equal(t, 1, count)
}

func TestBrowserAdapter_Snapshot(t *testing.T) {
	adapter, ctx := openPage(t, FormHTML)

	snap, err := adapter.Snapshot(ctx)
	require.NoError(t, err)

	assert.Contains(t, snap.HTML, `data-automation-id="email"`)
	assert.NotContains(t, snap.HTML, "<script")
	require.NotNil(t, snap.Screenshot)
	assert.Equal(t, "jpeg", snap.Screenshot.Format)
	assert.LessOrEqual(t, snap.Screenshot.Width, maxScreenshotWidth)
	assert.NotEmpty(t, snap.Screenshot.Data)
}

func TestBrowserAdapter_ForeignElement(t *testing.T) {
	adapter := &BrowserAdapter{}
	err := adapter.Click(context.Background(), foreign{})
	assert.ErrorContains(t, err, "foreign element")
}

type foreign struct{}

func (foreign) Locator() entity.Locator { return "" }

func TestBrowserAdapter_CloseIsIdempotent(t *testing.T) {
	adapter := newAdapter(t)
	adapter.Close()
	adapter.Close()
	assert.True(t, adapter.closed)
}
