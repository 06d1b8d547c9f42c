package semconv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDWXKeysAreNamespaced(t *testing.T) {
	keys := []string{
		string(DWX.CommandID), string(DWX.Action), string(DWX.OrderType),
		string(DWX.Field), string(DWX.AdvisoryCode), string(DWX.Symbol),
		string(DWX.Ticket), string(DWX.Magic), string(DWX.Status),
		string(DWX.ErrorCode), string(DWX.Component), string(DWX.ResponseKey),
	}

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k, "dwx."), k)
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
}

func TestLogsKeys(t *testing.T) {
	assert.Equal(t, "event", string(Logs.Event))
	assert.Equal(t, "service.name", string(Logs.ServiceName))
	kv := Logs.Feature.String("tracker")
	assert.Equal(t, "tracker", kv.Value.AsString())
}
