package heuristic

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescout/internal/scout"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	richSignal := "HTTP 200 https://example.com | Example | " + strings.Repeat("plenty of page text ", 10)

	tests := []struct {
		name string
		obs  scout.Observation
		want scout.Status
	}{
		{
			name: "unreachable is down",
			obs:  scout.Observation{Reachable: false, Signal: "net::ERR_NAME_NOT_RESOLVED"},
			want: scout.StatusDown,
		},
		{
			name: "http error is down",
			obs:  scout.Observation{Reachable: true, StatusCode: 503, Signal: richSignal},
			want: scout.StatusDown,
		},
		{
			name: "outage text is down even with 200",
			obs: scout.Observation{
				Reachable:  true,
				StatusCode: 200,
				Signal:     "HTTP 200 | Oops | We are under maintenance, " + strings.Repeat("back soon ", 20),
			},
			want: scout.StatusDown,
		},
		{
			name: "thin signal is unknown",
			obs:  scout.Observation{Reachable: true, StatusCode: 200, Signal: "HTTP 200"},
			want: scout.StatusUnknown,
		},
		{
			name: "healthy page is up",
			obs:  scout.Observation{Reachable: true, StatusCode: 200, Signal: richSignal},
			want: scout.StatusUp,
		},
	}

	c := New(0)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := c.Classify(context.Background(), tc.obs)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Status)
		})
	}
}
