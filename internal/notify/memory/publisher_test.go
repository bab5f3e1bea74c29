package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescout/internal/notify"
)

func TestPublishRecordsPayloads(t *testing.T) {
	t.Parallel()

	pub := New()

	first := notify.RunCompleted{RunID: "run-1", Total: 3, Up: 2, Down: 1}
	id, err := pub.Publish(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, "memory-1", id)

	id, err = pub.Publish(context.Background(), notify.RunCompleted{RunID: "run-2"})
	require.NoError(t, err)
	assert.Equal(t, "memory-2", id)

	payloads := pub.Payloads()
	require.Len(t, payloads, 2)
	assert.Equal(t, first, payloads[0])

	assert.NoError(t, pub.Close())
}

var _ notify.Publisher = (*Publisher)(nil)
