package routes

import (
	"bufio"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHeartbeat(t *testing.T) {
	var buffer bytes.Buffer
	w := bufio.NewWriter(&buffer)

	now := time.Date(2025, 5, 4, 20, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	require.NoError(t, writeHeartbeat(w, now))
	assert.Equal(t, "event: heartbeat\ndata: {\"type\":\"heartbeat\",\"time\":\"2025-05-04T18:30:00Z\"}\n\n", buffer.String())
}
