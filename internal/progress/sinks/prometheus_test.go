package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescout/internal/progress"
	"sitescout/internal/scout"
)

func promEvent(stage progress.Stage) progress.Event {
	evt := progress.Event{
		RunID: [16]byte{1, 2, 3},
		TS:    time.Unix(1700000000, 0),
		Stage: stage,
	}
	if stage == progress.StageCheckDone {
		evt.Category = "News"
		evt.Site = "Example"
		evt.Status = scout.StatusUp
		evt.Dur = 2 * time.Second
	}
	return evt
}

func TestPrometheusCountsRunLifecycle(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheus(reg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sink.Consume(ctx, []progress.Event{promEvent(progress.StageRunStart)}))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.runsStarted))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.runsRunning))

	// A duplicate start for the same run must not double count.
	require.NoError(t, sink.Consume(ctx, []progress.Event{promEvent(progress.StageRunStart)}))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.runsStarted))

	require.NoError(t, sink.Consume(ctx, []progress.Event{promEvent(progress.StageRunDone)}))
	assert.Equal(t, float64(0), testutil.ToFloat64(sink.runsRunning))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.runsCompleted.WithLabelValues("ok")))

	// A done event for an unknown run is ignored.
	require.NoError(t, sink.Consume(ctx, []progress.Event{promEvent(progress.StageRunDone)}))
	assert.Equal(t, float64(0), testutil.ToFloat64(sink.runsRunning))
}

func TestPrometheusCountsChecks(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheus(reg)
	require.NoError(t, err)

	batch := []progress.Event{promEvent(progress.StageCheckDone), promEvent(progress.StageCheckDone)}
	require.NoError(t, sink.Consume(context.Background(), batch))

	assert.Equal(t, float64(2), testutil.ToFloat64(sink.checksTotal.WithLabelValues("News", "UP")))
	count := testutil.CollectAndCount(sink.checkDuration)
	assert.Equal(t, 1, count, "one histogram series for the UP status")
}

func TestPrometheusRunErrorCountsAsError(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheus(reg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sink.Consume(ctx, []progress.Event{promEvent(progress.StageRunStart)}))
	require.NoError(t, sink.Consume(ctx, []progress.Event{promEvent(progress.StageRunError)}))

	assert.Equal(t, float64(1), testutil.ToFloat64(sink.runsCompleted.WithLabelValues("error")))
	assert.Equal(t, float64(0), testutil.ToFloat64(sink.runsRunning))
}
