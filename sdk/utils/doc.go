// Package utils provee utilidades comunes para echo-dwx.
//
// # Utilidades Incluidas
//
// - UUID: command_id ordenable por tiempo (UUIDv7)
// - Timestamp: helpers para timestamps Unix en ms
// - JSON: validación, parsing y extracción de campos de mensajes del terminal
// - Copy: copia profunda de valores con forma JSON
//
// # Uso
//
//	id := utils.GenerateUUIDv7()
//
//	start := utils.NowUnixMilli()
//	// ... operación ...
//	elapsed := utils.ElapsedMs(start)
//
//	m, err := utils.JSONToMap(line)
//	action := utils.ExtractString(m, "_action")
//
// Lo usan sdk/ipc (parsing line-delimited), sdk/tracker (copias de registros)
// y el agent (correlación, snapshot y logging).
package utils
