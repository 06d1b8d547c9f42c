package utils

// DeepCopyValue copia recursivamente valores con forma JSON.
//
// Mapas y slices se duplican; los escalares se retornan tal cual. Un tipo que
// no tiene forma JSON se retorna sin copiar.
func DeepCopyValue(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		return DeepCopyMap(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = DeepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

// DeepCopyMap copia recursivamente un map[string]interface{}. nil retorna nil.
func DeepCopyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = DeepCopyValue(v)
	}
	return out
}
