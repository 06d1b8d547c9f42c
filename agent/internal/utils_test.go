package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestMapToAttrs(t *testing.T) {
	assert.Nil(t, mapToAttrs(nil))

	attrs := mapToAttrs(map[string]interface{}{
		"b_int":   3,
		"a_str":   "x",
		"c_float": 1.5,
		"d_bool":  true,
		"e_slice": []string{"p", "q"},
		"f_nil":   nil,
		"g_other": struct{ N int }{7},
		"h_int64": int64(9),
	})

	assert.Equal(t, []attribute.KeyValue{
		attribute.String("a_str", "x"),
		attribute.Int("b_int", 3),
		attribute.Float64("c_float", 1.5),
		attribute.Bool("d_bool", true),
		attribute.StringSlice("e_slice", []string{"p", "q"}),
		attribute.String("f_nil", ""),
		attribute.String("g_other", "{7}"),
		attribute.Int64("h_int64", 9),
	}, attrs)
}
