package headless

import (
	"context"
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavMetaCapturesDocumentResponse(t *testing.T) {
	t.Parallel()

	meta := newNavMeta()
	meta.captureEvent(&network.EventResponseReceived{
		Type:     network.ResourceTypeDocument,
		Response: &network.Response{Status: 503, URL: "https://example.com/maintenance"},
	})

	status, url := meta.snapshotWithFallbacks("https://example.com", "https://example.com/final")
	assert.Equal(t, 503, status)
	assert.Equal(t, "https://example.com/maintenance", url)
}

func TestNavMetaIgnoresSubresourceEvents(t *testing.T) {
	t.Parallel()

	meta := newNavMeta()
	meta.captureEvent(&network.EventResponseReceived{
		Type:     network.ResourceTypeImage,
		Response: &network.Response{Status: 404, URL: "https://example.com/logo.png"},
	})

	status, url := meta.snapshotWithFallbacks("https://example.com", "")
	assert.Equal(t, 200, status, "missing document event falls back to 200")
	assert.Equal(t, "https://example.com", url)
}

func TestNavMetaFallbackPrefersFinalURL(t *testing.T) {
	t.Parallel()

	meta := newNavMeta()
	status, url := meta.snapshotWithFallbacks("https://example.com", "https://example.com/landing")
	assert.Equal(t, 200, status)
	assert.Equal(t, "https://example.com/landing", url)
}

func TestNewRejectsNegativeParallelism(t *testing.T) {
	t.Parallel()

	_, err := New(Config{MaxParallel: -1})
	assert.Error(t, err)
}

func TestAcquireHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	p, err := New(Config{MaxParallel: 1})
	require.NoError(t, err)
	defer p.Close()

	// Occupy the only slot, then a canceled waiter must bail out.
	require.NoError(t, p.acquire(context.Background()))
	defer p.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.acquire(ctx))
}
