package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractField(t *testing.T) {
	m, err := JSONToMap([]byte(`{"_action":"OPEN_TRADES","_positions":{"12345":{"_symbol":"EURUSD","_lots":0.5}},"_response_value":134}`))
	require.NoError(t, err)

	assert.Equal(t, "OPEN_TRADES", ExtractString(m, "_action"))
	assert.Equal(t, "EURUSD", ExtractString(m, "_positions.12345._symbol"))
	assert.Equal(t, "", ExtractString(m, "_positions.12345._lots"))
	assert.Nil(t, ExtractField(m, "_positions.999._symbol"))
	assert.Nil(t, ExtractField(m, "_action.x"))

	v, ok := ExtractFloat64(m, "_response_value")
	assert.True(t, ok)
	assert.Equal(t, 134.0, v)
	_, ok = ExtractFloat64(m, "_action")
	assert.False(t, ok)
}

func TestJSONHelpers(t *testing.T) {
	assert.NoError(t, ValidateJSON([]byte(`{"a":1}`)))
	assert.Error(t, ValidateJSON([]byte(`{"a":`)))

	m, err := JSONToMap([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, m)

	assert.Equal(t, []byte("x\n"), EnsureNewlineBytes([]byte("x")))
	assert.Equal(t, []byte("x\n"), EnsureNewlineBytes([]byte("x\n")))
	assert.Equal(t, []byte("\n"), EnsureNewlineBytes(nil))

	data, err := MarshalJSON(map[string]interface{}{"_ticket": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_ticket":1}`, string(data))
}

func TestTimestamps(t *testing.T) {
	start := NowUnixMilli()
	assert.GreaterOrEqual(t, ElapsedMs(start), int64(0))
	assert.Equal(t, time.UnixMilli(start), UnixMilliToTime(start))
}
