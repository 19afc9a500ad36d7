package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/pkg/scrapingbee"
)

type stubBee struct {
	html string
	err  error
	got  scrapingbee.Request
}

func (s *stubBee) Fetch(_ context.Context, req scrapingbee.Request) (string, error) {
	s.got = req
	return s.html, s.err
}

func TestAPIFetcher_Fetch(t *testing.T) {
	bee := &stubBee{html: "<html>ok</html>"}
	f := NewAPIFetcher(bee, nil)

	html, err := f.Fetch(context.Background(), "https://example.com", Options{
		RenderJS:     true,
		WaitSelector: "#search",
		Timeout:      time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", html)
	assert.True(t, bee.got.RenderJS)
	assert.Equal(t, "#search", bee.got.WaitSelector)
	assert.False(t, bee.got.PremiumProxy)
}

func TestAPIFetcher_ErrorClassification(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		bee := &stubBee{err: &scrapingbee.StatusError{StatusCode: 403}}
		f := NewAPIFetcher(bee, nil)

		_, err := f.Fetch(context.Background(), "https://example.com", Options{})
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindHTTPStatus, kind)

		var fe *Error
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, 403, fe.StatusCode)
	})

	t.Run("deadline becomes timeout", func(t *testing.T) {
		bee := &stubBee{err: context.DeadlineExceeded}
		f := NewAPIFetcher(bee, nil)

		_, err := f.Fetch(context.Background(), "https://example.com", Options{})
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindTimeout, kind)
	})

	t.Run("anything else is network", func(t *testing.T) {
		bee := &stubBee{err: errors.New("connection refused")}
		f := NewAPIFetcher(bee, nil)

		_, err := f.Fetch(context.Background(), "https://example.com", Options{})
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindNetwork, kind)
	})
}

func TestAPIFetcher_CircuitBreakerOpensAfterFailures(t *testing.T) {
	bee := &stubBee{err: errors.New("down")}
	f := NewAPIFetcher(bee, nil)

	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), "https://example.com", Options{})
		require.Error(t, err)
	}

	// Breaker now open: the upstream is no longer called.
	bee.err = nil
	bee.html = "<html>recovered</html>"
	_, err := f.Fetch(context.Background(), "https://example.com", Options{})
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindNetwork, kind)
}
