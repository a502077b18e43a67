package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLogsJSONWithContext(t *testing.T) {
	Init("production")
	defer Init("development")

	var buf bytes.Buffer
	SetOutput(&buf)

	l := WithItem("item-1", "alice")
	l.Info().Int64("amount", 1010).Msg("bid settled")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "oi-market", line["service"])
	assert.Equal(t, "item-1", line["item_id"])
	assert.Equal(t, "alice", line["uid"])
	assert.EqualValues(t, 1010, line["amount"])
}

func TestProductionSuppressesDebug(t *testing.T) {
	Init("production")
	defer Init("development")

	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("hidden %d", 1)
	assert.Zero(t, buf.Len())

	Warn("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}
