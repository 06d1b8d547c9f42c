package utils

import (
	"encoding/json"
	"strings"
)

// ValidateJSON verifica si los datos son JSON válido.
//
// Example:
//
//	data := []byte(`{"_action":"EXECUTION"}`)
//	err := utils.ValidateJSON(data)
//	if err != nil {
//	    // No es JSON válido
//	}
func ValidateJSON(data []byte) error {
	var js interface{}
	return json.Unmarshal(data, &js)
}

// MarshalJSON serializa cualquier valor a JSON.
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalJSONIndent serializa con indentación.
func MarshalJSONIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}

// JSONToMap convierte JSON a map[string]interface{}.
//
// Los números quedan como float64. Un JSON "null" retorna un map nil sin error.
//
// Example:
//
//	data := []byte(`{"_action":"EXECUTION","_ticket":12345}`)
//	m, err := utils.JSONToMap(data)
//	if err == nil {
//	    fmt.Println(m["_ticket"]) // => 12345
//	}
func JSONToMap(data []byte) (map[string]interface{}, error) {
	var result map[string]interface{}
	err := json.Unmarshal(data, &result)
	return result, err
}

// EnsureNewlineBytes asegura que los bytes terminen con \n (line-delimited).
func EnsureNewlineBytes(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] != '\n' {
		return append(data, '\n')
	}
	return data
}

// ExtractField extrae un campo de un JSON parseado a map.
//
// Soporta campos anidados con notación de punto.
//
// Example:
//
//	data := map[string]interface{}{
//	    "_positions": map[string]interface{}{
//	        "12345": map[string]interface{}{"_symbol": "EURUSD"},
//	    },
//	}
//	symbol := utils.ExtractField(data, "_positions.12345._symbol")
//	// => "EURUSD"
func ExtractField(m map[string]interface{}, path string) interface{} {
	parts := strings.Split(path, ".")
	var current interface{} = m

	for _, part := range parts {
		switch v := current.(type) {
		case map[string]interface{}:
			var ok bool
			current, ok = v[part]
			if !ok {
				return nil
			}
		default:
			return nil
		}
	}

	return current
}

// ExtractString es como ExtractField pero retorna string.
//
// Si el campo no existe o no es string, retorna "".
func ExtractString(m map[string]interface{}, path string) string {
	v := ExtractField(m, path)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// ExtractFloat64 es como ExtractField pero retorna float64 y si el campo era numérico.
func ExtractFloat64(m map[string]interface{}, path string) (float64, bool) {
	switch val := ExtractField(m, path).(type) {
	case float64:
		return val, true
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	}
	return 0, false
}
